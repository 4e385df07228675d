package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_gateway_requests_total",
			Help: "Number of remote gateway calls by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	GatewayLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_gateway_request_duration_seconds",
			Help:    "Time taken by remote gateway calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Cart mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	SessionStoreFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_session_store_failures_total",
			Help: "Best-effort session storage failures that degraded to empty state",
		},
		[]string{"operation"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(GatewayRequests, GatewayLatency, CartMutations, SessionStoreFailures)
	})
}
