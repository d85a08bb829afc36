package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fullstacktodo"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by route, method and status code."},
		[]string{"route", "method", "code"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency by route and method.", Buckets: prometheus.DefBuckets},
		[]string{"route", "method"},
	)
	TodoOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "todo_operations_total", Help: "Todo store operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
	ListCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "todo_list_cache_total", Help: "Todo list cache lookups by result (hit, miss)."},
		[]string{"result"},
	)
)

// RegisterCollectors registers every collector of this package on reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(TodoOperations)
	reg.MustRegister(ListCache)
}
