// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	extractorBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_extractor",
		Name:      "blocks_total",
		Help:      "Count of blocks pulled from the block source.",
	}, []string{"coin", "network", "status"})

	extractorTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_extractor",
		Name:      "transactions_total",
		Help:      "Count of resolved transactions.",
	}, []string{"coin", "network", "status"})

	extractorUnresolvedInputsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_extractor",
		Name:      "unresolved_inputs_total",
		Help:      "Count of non-coinbase inputs whose previous output was not found.",
	}, []string{"coin", "network"})

	extractorBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_extractor",
		Name:      "block_duration_seconds",
		Help:      "Duration of resolving and committing a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "network", "status"})

	extractorPassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_extractor",
		Name:      "pass_duration_seconds",
		Help:      "Duration of a full extraction pass.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"coin", "network", "status"})

	extractorLiveOutputs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_extractor",
		Name:      "live_outputs",
		Help:      "Number of unspent outputs held by the output ledger.",
	}, []string{"coin", "network"})

	extractorAddresses = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "ledger_extractor",
		Name:      "addresses",
		Help:      "Number of addresses with a running balance.",
	}, []string{"coin", "network"})
)

// Extractor tracks metrics for the ledger extraction pass.
type Extractor struct {
	coin    model.Coin
	network model.Network
}

// NewExtractor constructs an Extractor with sane defaults.
func NewExtractor(coin model.Coin, network model.Network) *Extractor {
	if coin == "" {
		coin = "unknown"
	}
	if network == "" {
		network = "unknown"
	}
	return &Extractor{coin: coin, network: network}
}

// ObserveDecodeFailure counts a block the source could not decode.
func (m Extractor) ObserveDecodeFailure() {
	extractorBlocksTotal.WithLabelValues(string(m.coin), string(m.network), "decode_error").Inc()
}

// ObserveBlock records a block outcome and duration.
func (m Extractor) ObserveBlock(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	extractorBlocksTotal.WithLabelValues(string(m.coin), string(m.network), status).Inc()
	extractorBlockDuration.WithLabelValues(string(m.coin), string(m.network), status).
		Observe(time.Since(started).Seconds())
}

// ObserveTransaction records a committed or skipped transaction.
func (m Extractor) ObserveTransaction(err error, unresolvedInputs uint32) {
	status := "committed"
	if err != nil {
		status = "failed"
	}
	extractorTransactionsTotal.WithLabelValues(string(m.coin), string(m.network), status).Inc()
	if unresolvedInputs > 0 {
		extractorUnresolvedInputsTotal.WithLabelValues(string(m.coin), string(m.network)).Add(float64(unresolvedInputs))
	}
}

// ObserveLedger records the size of the in-memory state.
func (m Extractor) ObserveLedger(liveOutputs, addresses int) {
	extractorLiveOutputs.WithLabelValues(string(m.coin), string(m.network)).Set(float64(liveOutputs))
	extractorAddresses.WithLabelValues(string(m.coin), string(m.network)).Set(float64(addresses))
}

// ObservePass records the outcome of a whole pass.
func (m Extractor) ObservePass(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	extractorPassDuration.WithLabelValues(string(m.coin), string(m.network), status).
		Observe(time.Since(started).Seconds())
}
