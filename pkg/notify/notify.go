// Package notify delivers user facing notifications (project invitations,
// overdue task digests).
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/pkg/config"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

type Notifier interface {
	NotifyInvitation(ctx context.Context, invitee *model.User, project *model.Project, role model.Role) error
	NotifyOverdue(ctx context.Context, assignee *model.User, tasks []model.Task) error
}

// New returns an SMTP notifier when SMTP is enabled, otherwise a notifier
// that only writes to the log.
func New(cfg *config.Config) Notifier {
	if cfg.SMTP.Enable {
		return NewSMTPNotifier(cfg)
	}
	return LogNotifier{}
}

type LogNotifier struct{}

func (LogNotifier) NotifyInvitation(_ context.Context, invitee *model.User, project *model.Project, role model.Role) error {
	logutils.Log.WithFields(logutils.Fields{
		"user":    invitee.Name,
		"project": project.Name,
		"role":    role.String(),
	}).Info("project invitation")
	return nil
}

func (LogNotifier) NotifyOverdue(_ context.Context, assignee *model.User, tasks []model.Task) error {
	logutils.Log.WithFields(logutils.Fields{
		"user":  assignee.Name,
		"tasks": len(tasks),
	}).Info("overdue task reminder")
	return nil
}

func invitationBody(invitee *model.User, project *model.Project, role model.Role) (subject, body string) {
	subject = fmt.Sprintf("[TaskFlow] You were added to %s", project.Name)
	body = fmt.Sprintf("Hi %s,\n\nYou now have the %s role in project %q.\n", invitee.Name, role, project.Name)
	return subject, body
}

func overdueBody(assignee *model.User, tasks []model.Task) (subject, body string) {
	subject = fmt.Sprintf("[TaskFlow] %d overdue task(s)", len(tasks))
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\nThe following tasks assigned to you are past their due date:\n\n", assignee.Name)
	for i := range tasks {
		t := &tasks[i]
		project := ""
		if t.Project != nil {
			project = t.Project.Name + ": "
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(&sb, "  - %s%s (due %s)\n", project, t.Title, due)
	}
	return subject, sb.String()
}
