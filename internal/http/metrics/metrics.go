// Package metrics is the single source of truth for this service's
// custom Prometheus metric names, labels and help strings. Everything is
// registered with the default registry at import time via promauto; the
// echoprometheus middleware adds the standard HTTP request metrics on
// top of these.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notes"

// OperationsTotal counts service-layer operations by outcome.
// Labels:
//   - entity: "user" or "note"
//   - operation: "create", "get", "list", "update", "delete"
//   - outcome: "ok" or the HTTP status class of the failure (e.g. "409")
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of service operations, by entity, operation and outcome.",
	},
	[]string{"entity", "operation", "outcome"},
)

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "missing", "unknown_user", "bad_password", "no_roles"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed HTTP Basic authentication attempts.",
	},
	[]string{"reason"},
)

// AuditDropsTotal counts audit lines that could not be appended and were
// swallowed by the fire-and-forget sink contract.
var AuditDropsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_drops_total",
		Help:      "Total number of audit log lines dropped due to append failures.",
	},
	[]string{"category"},
)
