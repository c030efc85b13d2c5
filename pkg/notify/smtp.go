package notify

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/pkg/config"
	"github.com/raids-lab/taskflow/pkg/logutils"
)

var errNoEmail = errors.New("user has no email address")

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPNotifier struct {
	from   string
	dialer sender
}

func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		from:   cfg.SMTP.From,
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password),
	}
}

func (n *SMTPNotifier) NotifyInvitation(ctx context.Context, invitee *model.User, project *model.Project, role model.Role) error {
	subject, body := invitationBody(invitee, project, role)
	return n.send(ctx, invitee, subject, body)
}

func (n *SMTPNotifier) NotifyOverdue(ctx context.Context, assignee *model.User, tasks []model.Task) error {
	subject, body := overdueBody(assignee, tasks)
	return n.send(ctx, assignee, subject, body)
}

func (n *SMTPNotifier) send(ctx context.Context, to *model.User, subject, body string) error {
	email := to.Attributes.Data().Email
	if email == nil || *email == "" {
		logutils.Log.Warnf("%s does not have an email address", to.Name)
		return errNoEmail
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", *email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return n.dialer.DialAndSend(m)
}
