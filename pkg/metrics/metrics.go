package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Queries slower than the configured threshold
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Total number of database queries above the slow threshold",
		},
		[]string{"command"},
	)

	SlowQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_slow_query_duration_seconds",
			Help:    "Duration of slow database queries in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~12.8s
		},
	)

	// Summary requests by outcome: cached, generated, stale, unavailable
	SummaryOutcomeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_outcome_total",
			Help: "AI summary requests by outcome",
		},
		[]string{"outcome"},
	)

	// Text generation latency (milliseconds)
	AICallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_call_latency_ms",
			Help:    "Text generation API call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"status"},
	)

	// Integration events consumed by the worker
	EventIngestedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_ingested_total",
			Help: "Integration events consumed, by provider and result",
		},
		[]string{"provider", "result"}, // result: stored, duplicate, rejected, failed
	)

	// Client dashboard logins
	ClientLoginCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_login_total",
			Help: "Client dashboard login attempts by result",
		},
		[]string{"result"}, // result: success, failed
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementSlowQuery(command string, duration time.Duration) {
	SlowQueryCount.WithLabelValues(command).Inc()
	SlowQueryDuration.Observe(duration.Seconds())
}

func IncrementSummaryOutcome(outcome string) {
	SummaryOutcomeCount.WithLabelValues(outcome).Inc()
}

func RecordAICallLatency(status string, duration time.Duration) {
	AICallLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func IncrementEventIngested(provider, result string) {
	EventIngestedCount.WithLabelValues(provider, result).Inc()
}

func IncrementClientLogin(result string) {
	ClientLoginCount.WithLabelValues(result).Inc()
}
