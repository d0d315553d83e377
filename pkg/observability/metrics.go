// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the docqa service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// UpstreamBuckets defines histogram buckets suited for embedding and
// completion round trips, ranging from 100ms to 120s.
var UpstreamBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, route, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docqa_request_duration_seconds",
			Help:    "Request duration",
			Buckets: UpstreamBuckets,
		},
		[]string{"method", "path"},
	)

	// UpstreamRequestsTotal counts requests sent to upstream services
	// (embedding, completion, vector store).
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"service", "status"},
	)

	// UpstreamLatency records upstream round-trip latency in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docqa_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: UpstreamBuckets,
		},
		[]string{"service"},
	)

	// DocumentsIngestedTotal counts ingested documents by outcome
	// (created/updated).
	DocumentsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docqa_documents_ingested_total",
			Help: "Documents ingested",
		},
		[]string{"outcome"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docqa_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		UpstreamRequestsTotal,
		UpstreamLatency,
		DocumentsIngestedTotal,
		RateLimitRejectedTotal,
	)
}
