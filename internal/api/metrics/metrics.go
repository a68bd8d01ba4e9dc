// Package metrics defines and registers the custom Prometheus metrics of the
// reservation API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default Prometheus registry through
// promauto when the package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reservation"

// ── Query metrics ─────────────────────────────────────────────────────────────

// QueriesTotal counts schedule lookups.
// Labels:
//   - kind: "amenity_day" or "user"
//   - result: "ok", "invalid" or "error"
var QueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total number of reservation schedule lookups.",
	},
	[]string{"kind", "result"},
)

// QueryDuration measures how long a schedule lookup takes, store and cache included.
// Label:
//   - kind: "amenity_day" or "user"
var QueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Duration of reservation schedule lookups.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Credential metrics ────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login calls.
// Labels:
//   - action: "register" or "login"
//   - result: "ok", "invalid", "conflict", "unauthorized" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of credential operations, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Upload metrics ────────────────────────────────────────────────────────────

// CSVUploadsTotal counts files decoded through the upload endpoint.
// Label:
//   - result: "ok" or "invalid"
var CSVUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_uploads_total",
		Help:      "Total number of uploaded CSV files, by decode result.",
	},
	[]string{"result"},
)
