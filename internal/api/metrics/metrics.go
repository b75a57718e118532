// Package metrics defines and registers all custom Prometheus metrics for
// the field console session service. It is the single source of truth for
// metric names, labels, and help strings. Registration happens at import
// time through promauto against the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "denied" (bad credentials or inactive account),
//     "blocked" (location precondition failed), or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ForcedLogoutsTotal counts sessions terminated by the location monitor.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions forcibly ended after sustained location loss.",
	},
)

// ── Location monitor metrics ──────────────────────────────────────────────────

// LocationChecksTotal counts location capability probes.
// Label:
//   - result: "available" or "unavailable"
var LocationChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "location_checks_total",
		Help:      "Total number of location capability checks, by result.",
	},
	[]string{"result"},
)

// LocationFailureStreak tracks the current run of consecutive failed checks.
var LocationFailureStreak = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "location_failure_streak",
		Help:      "Current number of consecutive failed location checks.",
	},
)

// MonitorActive is 1 while the location monitor is polling, 0 otherwise.
var MonitorActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "location_monitor_active",
		Help:      "Whether the location monitor is currently polling (1) or stopped (0).",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit trail entries accepted for persistence.
// Label:
//   - kind: "login_success", "login_failed", "logout", "forced_logout"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of authentication audit events enqueued, by kind.",
	},
	[]string{"kind"},
)
