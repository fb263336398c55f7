package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/balance"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/outputs"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/resolver"
	"go.uber.org/zap"
)

// ErrSink wraps sink failures. They end the pass because a lost write would leave a gap in the
// record indexes.
var ErrSink = errors.New("ledger sink")

const defaultProgressInterval = 1000

// Config holds the tunables of a pass.
type Config struct {
	// TransactionLimit stops the pass once that many records are committed. Zero means no limit.
	TransactionLimit uint64
	// ProgressInterval is the number of blocks between progress log lines.
	ProgressInterval uint64
}

// Summary reports the counters of a finished pass.
type Summary struct {
	Blocks              uint64
	DecodeFailures      uint64
	Transactions        uint64
	TransactionFailures uint64
	UnresolvedInputs    uint64
	Addresses           int
	LiveOutputs         int
	LimitReached        bool
	Duration            time.Duration
}

// Extractor resolves blocks one at a time and hands the records to a sink.
type Extractor struct {
	logger   *zap.Logger
	source   BlockSource
	sink     Sink
	metrics  ExtractorMetrics
	cfg      Config
	ledger   *outputs.Ledger
	balances *balance.Accumulator
	resolver *resolver.Resolver
}

// NewExtractor builds an Extractor. The output ledger and balances live for exactly one Run.
func NewExtractor(source BlockSource, sink Sink, metrics ExtractorMetrics, cfg Config, logger *zap.Logger) (*Extractor, error) {
	if source == nil {
		return nil, errors.New("block source is required")
	}
	if sink == nil {
		return nil, errors.New("ledger sink is required")
	}
	if metrics == nil {
		return nil, errors.New("extractor metrics is required")
	}
	if cfg.ProgressInterval == 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}

	ledger := outputs.New()
	balances := balance.New()
	return &Extractor{
		logger:   logger,
		source:   source,
		sink:     sink,
		metrics:  metrics,
		cfg:      cfg,
		ledger:   ledger,
		balances: balances,
		resolver: resolver.New(ledger, balances),
	}, nil
}

// Run performs the pass until the source is exhausted, the limit is reached or ctx is canceled.
// Balances are flushed once on every exit path except a sink failure.
func (e *Extractor) Run(ctx context.Context) (summary Summary, err error) {
	started := time.Now()
	defer func() {
		summary.Duration = time.Since(started)
		summary.Addresses = e.balances.Len()
		summary.LiveOutputs = e.ledger.Len()
		e.metrics.ObservePass(err, started)
	}()
	defer func() {
		if cerr := e.source.Close(); cerr != nil {
			e.logger.Warn("close block source failed", zap.Error(cerr))
		}
	}()

	e.logger.Info("started processing transactions", zap.Uint64("limit", e.cfg.TransactionLimit))

	runErr := e.run(ctx, &summary)
	if runErr != nil && errors.Is(runErr, ErrSink) {
		e.logger.Error("pass aborted", zap.Error(runErr))
		_ = e.sink.Close()
		return summary, runErr
	}

	if err = e.flush(ctx, summary); err != nil {
		return summary, err
	}
	if summary.Transactions == 0 {
		e.logger.Warn("no transactions were processed, check the block source", zap.Uint64("blocks", summary.Blocks))
	}
	e.logger.Info("pass finished",
		zap.Uint64("blocks", summary.Blocks),
		zap.Uint64("transactions", summary.Transactions),
		zap.Uint64("decode_failures", summary.DecodeFailures),
		zap.Uint64("transaction_failures", summary.TransactionFailures),
		zap.Uint64("unresolved_inputs", summary.UnresolvedInputs),
		zap.Int("addresses", e.balances.Len()),
		zap.Bool("limit_reached", summary.LimitReached),
		zap.Duration("elapsed", time.Since(started)),
	)
	return summary, runErr
}

func (e *Extractor) run(ctx context.Context, summary *Summary) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		block, err := e.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, model.ErrDecode) {
			summary.DecodeFailures++
			e.metrics.ObserveDecodeFailure()
			e.logger.Warn("skip undecodable block", zap.Error(err))
			continue
		}
		if err != nil {
			return fmt.Errorf("next block: %w", err)
		}

		summary.Blocks++
		stop, err := e.processBlock(ctx, block, summary)
		if err != nil {
			return err
		}
		if summary.Blocks%e.cfg.ProgressInterval == 0 {
			e.logger.Info("progress",
				zap.Uint64("blocks", summary.Blocks),
				zap.Uint64("transactions", summary.Transactions),
				zap.Uint64("transaction_failures", summary.TransactionFailures),
				zap.Int("live_outputs", e.ledger.Len()),
			)
		}
		if stop {
			return ctx.Err()
		}
	}
}

// processBlock resolves and commits the transactions of block in order. It reports whether the
// pass should stop after this block.
func (e *Extractor) processBlock(ctx context.Context, block *model.Block, summary *Summary) (stop bool, err error) {
	started := time.Now()
	defer func() {
		e.metrics.ObserveBlock(err, started)
		e.metrics.ObserveLedger(e.ledger.Len(), e.balances.Len())
	}()

	// Cancellation is honoured between transactions. A resolved record is always committed so that
	// the ledger state and the sink never diverge.
	commitCtx := context.WithoutCancel(ctx)
	blockCtx := resolver.BlockContext{Hash: block.Hash, Timestamp: block.Timestamp}
	for i, tx := range block.Transactions {
		record, rerr := e.resolver.Resolve(blockCtx, tx)
		e.metrics.ObserveTransaction(rerr, record.UnresolvedInputs)
		if rerr != nil {
			summary.TransactionFailures++
			e.logger.Warn("skip transaction",
				zap.String("block_hash", block.Hash),
				zap.Int("position", i+1),
				zap.String("txid", tx.TxID),
				zap.Error(rerr),
			)
			continue
		}

		if err = e.sink.Commit(commitCtx, record); err != nil {
			return true, fmt.Errorf("%w: commit record %d: %w", ErrSink, record.Index, err)
		}
		summary.Transactions++
		summary.UnresolvedInputs += uint64(record.UnresolvedInputs)
		if ce := e.logger.Check(zap.DebugLevel, "committed"); ce != nil {
			ce.Write(
				zap.Uint64("index", record.Index),
				zap.String("block_hash", record.BlockHash),
				zap.String("timestamp", record.FormattedTimestamp()),
				zap.String("sender", record.SenderDisplay()),
				zap.String("receiver", record.ReceiverDisplay()),
				zap.Int64("amount_sent", record.AmountSent),
				zap.Int64("amount_received", record.AmountReceived),
				zap.Int64("fee", record.Fee),
			)
		}

		if e.cfg.TransactionLimit > 0 && summary.Transactions >= e.cfg.TransactionLimit {
			summary.LimitReached = true
			e.logger.Info("transaction limit reached", zap.Uint64("limit", e.cfg.TransactionLimit))
			return true, nil
		}
		if ctx.Err() != nil {
			return true, nil
		}
	}
	return false, nil
}

func (e *Extractor) flush(ctx context.Context, summary Summary) error {
	// Balances are still flushed after cancellation; the records they summarize are already durable.
	flushCtx := context.WithoutCancel(ctx)

	snapshot := e.balances.Snapshot()
	if err := e.sink.CommitBalances(flushCtx, snapshot); err != nil {
		_ = e.sink.Close()
		return fmt.Errorf("%w: commit balances: %w", ErrSink, err)
	}
	if err := e.sink.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrSink, err)
	}
	e.logger.Info("balances saved", zap.Int("addresses", len(snapshot)), zap.Uint64("transactions", summary.Transactions))
	return nil
}
