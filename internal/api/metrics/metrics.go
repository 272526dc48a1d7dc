// Package metrics defines and registers all custom Prometheus metrics for the
// expense-sharing API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expenses"

// ── Project metrics ───────────────────────────────────────────────────────────

// ProjectsCreatedTotal counts newly created projects.
var ProjectsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created.",
	},
)

// ParticipantsInvitedTotal counts participants added to projects after
// creation.
var ParticipantsInvitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "participants_invited_total",
		Help:      "Total number of participants invited into existing projects.",
	},
)

// ── Expense metrics ───────────────────────────────────────────────────────────

// ExpensesRecordedTotal counts expense mutations.
// Label:
//   - operation: "create", "update", or "delete"
var ExpensesRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_recorded_total",
		Help:      "Total number of expense write operations, by operation.",
	},
	[]string{"operation"},
)

// ── Change feed metrics ───────────────────────────────────────────────────────

// ChangeEventsPublishedTotal counts change events delivered to the feed
// transport.
// Label:
//   - kind: the change kind (e.g. "expense.created")
var ChangeEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_published_total",
		Help:      "Total number of change events published to the feed.",
	},
	[]string{"kind"},
)

// ChangeEventsDroppedTotal counts change events that failed to publish.
// Label:
//   - kind: the change kind
var ChangeEventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_dropped_total",
		Help:      "Total number of change events dropped after a publish failure.",
	},
	[]string{"kind"},
)

// FeedQueueDepth tracks the number of events waiting in each dispatcher
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var FeedQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_queue_depth",
		Help:      "Current number of change events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// WatchSubscribers tracks currently open SSE watch streams.
var WatchSubscribers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "watch_subscribers",
		Help:      "Number of currently connected project watch streams.",
	},
)
