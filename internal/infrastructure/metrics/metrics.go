package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway metrics. The host process is responsible for exposing the registry;
// this package only records.
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total platform API requests by outcome",
		},
		[]string{"method", "endpoint", "outcome"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "gateway",
			Name:      "rate_limited_total",
			Help:      "Requests rejected for rate limiting, by source (local or remote)",
		},
		[]string{"source"},
	)

	RemoteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "gateway",
			Name:      "remote_errors_total",
			Help:      "Non-2xx platform responses by status class",
		},
		[]string{"status_class"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Platform API request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)
