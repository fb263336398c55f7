package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_query",
		Name:      "requests_total",
		Help:      "Count of ledger queries.",
	}, []string{"operation", "status"})
	queryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_query",
		Name:      "request_duration_seconds",
		Help:      "Duration of ledger queries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// Query tracks metrics for the query layer.
type Query struct{}

// NewQuery creates a Query metrics collector.
func NewQuery() *Query {
	return &Query{}
}

// Observe records a query outcome. Status is one of success, not_found, invalid_input, invalid_range or error.
func (m Query) Observe(operation, status string, started time.Time) {
	queryRequestsTotal.WithLabelValues(operation, status).Inc()
	queryRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
