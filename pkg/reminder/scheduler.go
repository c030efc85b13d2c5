// Package reminder periodically mails assignees a digest of their overdue
// tasks.
package reminder

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/raids-lab/taskflow/dao/model"
	"github.com/raids-lab/taskflow/pkg/logutils"
	"github.com/raids-lab/taskflow/pkg/metrics"
	"github.com/raids-lab/taskflow/pkg/notify"
)

const (
	maxConcurrentSends = 10
	runTimeout         = 5 * time.Minute
)

// TaskSource returns open, assigned tasks due before now with the assignee
// and project loaded. board.Service implements it.
type TaskSource interface {
	OverdueTasks(ctx context.Context, now time.Time) ([]model.Task, error)
}

type Scheduler struct {
	source   TaskSource
	notifier notify.Notifier
	cron     *cron.Cron
	now      func() time.Time

	// a run is skipped while the previous one is still sending
	running sync.Mutex
}

func NewScheduler(source TaskSource, notifier notify.Notifier) *Scheduler {
	return &Scheduler{
		source:   source,
		notifier: notifier,
		cron:     cron.New(cron.WithLocation(time.Local)),
		now:      time.Now,
	}
}

// Start schedules the reminder run with a standard five field cron spec and
// starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			klog.Errorf("overdue reminder run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	klog.Infof("overdue reminders scheduled: %s", spec)
	return nil
}

// Stop stops scheduling and returns a context that is done once the running
// job, if any, has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce sends one digest per assignee with overdue tasks and returns the
// number of digests delivered. A failed delivery is logged and counted and
// does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	if !s.running.TryLock() {
		logutils.Log.Warn("previous overdue reminder run still in progress, skipping")
		return 0, nil
	}
	defer s.running.Unlock()

	tasks, err := s.source.OverdueTasks(ctx, s.now())
	if err != nil {
		return 0, err
	}
	byAssignee := lo.GroupBy(tasks, func(t model.Task) uint { return *t.AssigneeID })
	assignees := lo.Keys(byAssignee)
	slices.Sort(assignees)

	var (
		mu   sync.Mutex
		sent int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)
	for _, id := range assignees {
		group := byAssignee[id]
		assignee := group[0].Assignee
		if assignee == nil {
			continue
		}
		g.Go(func() error {
			l := logutils.Log.WithFields(logutils.Fields{
				"user":  assignee.Name,
				"tasks": len(group),
			})
			if err := s.notifier.NotifyOverdue(gctx, assignee, group); err != nil {
				metrics.RemindersSent.WithLabelValues("failed").Inc()
				l.Warnf("send overdue reminder: %v", err)
				return nil
			}
			metrics.RemindersSent.WithLabelValues("sent").Inc()
			mu.Lock()
			sent++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sent, err
	}
	logutils.Log.WithFields(logutils.Fields{
		"tasks":   len(tasks),
		"digests": sent,
	}).Info("overdue reminders sent")
	return sent, nil
}
