// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is a dedicated registry, so only taskflow collectors are exported.
var Registry = prometheus.NewRegistry()

var (
	// TasksByStatus is refreshed from the database at scrape time.
	TasksByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "taskflow_tasks",
			Help: "Number of tasks per status",
		},
		[]string{"status"},
	)

	TaskMoves = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskflow_task_moves_total",
			Help: "Total number of tasks moved between or within lists",
		},
	)

	RemindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_reminders_sent_total",
			Help: "Overdue reminders by delivery result",
		},
		[]string{"result"},
	)
)

//nolint:gochecknoinits // collectors are registered once per process
func init() {
	Registry.MustRegister(TasksByStatus, TaskMoves, RemindersSent)
}
