// Package metrics defines and registers all custom Prometheus metrics for the
// FitTrack client session core. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fittrack"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts credential-exchange attempts.
// Label:
//   - result: "success", "rejected" (bad credentials), or "error" (transport)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// IdentityLoadDuration measures the two phases of an identity load.
// Label:
//   - phase: "account" or "profile"
var IdentityLoadDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "identity_load_duration_seconds",
		Help:      "Duration of account and profile fetches during an identity load.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"phase"},
)

// ProfileLoadsTotal counts profile resolution outcomes.
// Label:
//   - result: "found", "missing" (no matching record), or "error"
var ProfileLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_loads_total",
		Help:      "Total number of profile lookups, by outcome.",
	},
	[]string{"result"},
)

// TokenChecksTotal counts stored-token freshness checks.
// Label:
//   - result: "valid", "invalid", or "absent"
var TokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_checks_total",
		Help:      "Total number of access-token expiration checks, by result.",
	},
	[]string{"result"},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route-guard outcomes.
// Label:
//   - decision: "allow", "deny", or "pending"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route-guard decisions, by outcome.",
	},
	[]string{"decision"},
)
