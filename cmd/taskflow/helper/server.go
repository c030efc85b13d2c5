package helper

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/raids-lab/taskflow/internal"
	"github.com/raids-lab/taskflow/internal/handler"
	"github.com/raids-lab/taskflow/pkg/config"
	"github.com/raids-lab/taskflow/pkg/notify"
	"github.com/raids-lab/taskflow/pkg/reminder"
)

type ServerRunner struct {
	backendConfig *config.Config
	scheduler     *reminder.Scheduler
}

func NewServerRunner(backendConfig *config.Config) *ServerRunner {
	return &ServerRunner{
		backendConfig: backendConfig,
	}
}

// StartReminders schedules the overdue task digests when enabled.
func (sr *ServerRunner) StartReminders(registerConfig *handler.RegisterConfig) error {
	if !sr.backendConfig.Reminder.Enable {
		klog.Info("overdue reminders disabled")
		return nil
	}
	sr.scheduler = reminder.NewScheduler(registerConfig.Board, notify.New(sr.backendConfig))
	return sr.scheduler.Start(sr.backendConfig.Reminder.Spec)
}

var (
	readHeaderTimeout = 10 * time.Second
	cancelTimeout     = 10 * time.Second
)

// StartServer serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func (sr *ServerRunner) StartServer(registerConfig *handler.RegisterConfig) {
	klog.Info("starting server")
	backend := internal.Register(registerConfig)

	// reference: https://gin-gonic.com/en/docs/examples/graceful-restart-or-stop
	srv := &http.Server{
		Addr:              sr.backendConfig.ServerAddr,
		Handler:           backend,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		klog.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			klog.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	klog.Info("Shutdown Gin Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
	defer cancel()
	if sr.scheduler != nil {
		select {
		case <-sr.scheduler.Stop().Done():
		case <-ctx.Done():
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		klog.Info("Gin Server Shutdown:", err)
	}
	if err := registerConfig.Board.Wait(ctx); err != nil {
		klog.Info("pending notifications dropped: ", err)
	}
	klog.Info("Gin Server exiting")
}
