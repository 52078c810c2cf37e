// AngelaMos | 2026
// metrics.go

// Package metrics declares the storefront's Prometheus collectors. They are
// registered on the default registry at init and served by promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// HTTPRequestsTotal is labelled by chi route pattern, never the raw path.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status code.",
	},
	[]string{"method", "route", "status"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// AuthAttemptsTotal counts register and login outcomes.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "invalid_credentials", "policy_violation", "conflict", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Authentication attempts by operation and result.",
	},
	[]string{"operation", "result"},
)

var SoftDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "soft_deletes_total",
		Help:      "Resources deactivated and recorded in the removed-items ledger.",
	},
	[]string{"resource"},
)

// CatalogCacheTotal records catalog cache lookups; result is "hit", "miss" or "error".
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Catalog cache lookups by result.",
	},
	[]string{"result"},
)

const (
	ResultSuccess            = "success"
	ResultInvalidCredentials = "invalid_credentials"
	ResultPolicyViolation    = "policy_violation"
	ResultConflict           = "conflict"
	ResultError              = "error"
)
