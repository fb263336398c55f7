package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sinkRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_sink",
		Name:      "operations_total",
		Help:      "Count of ledger sink and store operations.",
	}, []string{"operation", "sink", "status"})
	sinkRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_sink",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger sink and store operations.",
		Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"operation", "sink", "status"})
)

// Sink tracks metrics for one sink backend (csv, redis, clickhouse).
type Sink struct {
	sink string
}

// NewSink creates a Sink metrics collector for the named backend.
func NewSink(sink string) *Sink {
	if sink == "" {
		sink = "unknown"
	}
	return &Sink{sink: sink}
}

// Observe records duration and status of a sink operation.
func (m Sink) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	sinkRequestsTotal.WithLabelValues(operation, m.sink, status).Inc()
	sinkRequestDuration.WithLabelValues(operation, m.sink, status).Observe(time.Since(started).Seconds())
}
