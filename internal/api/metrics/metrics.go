// Package metrics defines and registers the custom Prometheus metrics for
// the board API. It is the single source of truth for metric names, labels,
// and help strings; per-request HTTP metrics come from the echoprometheus
// middleware instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "board"

// TasksCreatedTotal counts created tasks.
// Label:
//   - priority: "critical", "high", "medium", or "low"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// TasksMovedTotal counts partial task updates issued by board moves.
// Label:
//   - kind: "transfer" (column change) or "reposition" (order-only update)
var TasksMovedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_moved_total",
		Help:      "Total number of move-related task updates, by kind.",
	},
	[]string{"kind"},
)

// SprintsCreatedTotal counts created sprints.
// Label:
//   - status: "planned", "active", or "completed"
var SprintsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sprints_created_total",
		Help:      "Total number of sprints created, by initial status.",
	},
	[]string{"status"},
)

// LoginAttemptsTotal counts authentication attempts.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
