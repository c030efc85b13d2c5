// Package board implements projects, members, lists, tasks and comments of
// the task board, with every operation gated by the caller's project role.
package board

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/raids-lab/taskflow/pkg/notify"
)

// notifyTimeout bounds one background notification.
const notifyTimeout = 30 * time.Second

type Service struct {
	db       *gorm.DB
	notifier notify.Notifier
	now      func() time.Time
	pending  sync.WaitGroup
}

func NewService(db *gorm.DB, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{
		db:       db,
		notifier: notifier,
		now:      time.Now,
	}
}

// notifyAsync runs send in the background under its own context, bounded by
// notifyTimeout and independent of the request.
func (s *Service) notifyAsync(send func(ctx context.Context) error, onErr func(error)) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			onErr(err)
		}
	}()
}

// Wait blocks until background notifications have finished or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
