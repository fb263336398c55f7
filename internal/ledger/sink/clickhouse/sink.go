package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/batcher"
	"go.uber.org/zap"
)

const (
	insertRecordsQuery = `
INSERT INTO ledger_transactions (
	seq_index,
	block_hash,
	timestamp,
	txid,
	senders,
	receivers,
	individual_sent,
	individual_received,
	amount_sent,
	amount_received,
	fee,
	coinbase,
	unresolved_inputs
) VALUES`

	insertBalancesQuery = `
INSERT INTO ledger_wallet_balances (
	address,
	balance,
	updated_at
) VALUES`
)

// SinkConfig tunes batching and retries.
type SinkConfig struct {
	BatchSize     int
	FlushInterval time.Duration
	RPS           int
	RetryAttempts int
	RetryDelay    time.Duration
	RetryMaxDelay time.Duration
}

func (c SinkConfig) withDefaults() SinkConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 10_000
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	if c.RPS <= 0 {
		c.RPS = 10
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 5
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 500 * time.Millisecond
	}
	if c.RetryMaxDelay < c.RetryDelay {
		c.RetryMaxDelay = 30 * time.Second
	}
	return c
}

// Sink buffers records and inserts them in batches. A batch that still fails after retries is
// reported by the next Commit and by Close.
type Sink struct {
	conn    Conn
	cfg     SinkConfig
	metrics Metrics
	logger  *zap.Logger
	batcher *batcher.Batcher[model.TransactionRecord]
	now     func() time.Time
}

// NewSink starts the background batcher. Queued records survive cancellation of ctx and are
// flushed by Close.
func NewSink(ctx context.Context, conn Conn, cfg SinkConfig, metrics Metrics, logger *zap.Logger) *Sink {
	cfg = cfg.withDefaults()
	s := &Sink{conn: conn, cfg: cfg, metrics: metrics, logger: logger, now: time.Now}
	s.batcher = batcher.New(logger.Named("batcher"), s.insertRecords, cfg.BatchSize, cfg.FlushInterval, cfg.RPS)
	s.batcher.Start(context.WithoutCancel(ctx))
	return s
}

// Commit queues record.
func (s *Sink) Commit(ctx context.Context, record model.TransactionRecord) error {
	if err := s.batcher.Add(ctx, record); err != nil {
		return fmt.Errorf("queue record %d: %w", record.Index, err)
	}
	return nil
}

// CommitBalances inserts balances in chunks of BatchSize.
func (s *Sink) CommitBalances(ctx context.Context, balances []model.Balance) error {
	updated := s.now().UTC().Truncate(time.Second)
	for from := 0; from < len(balances); from += s.cfg.BatchSize {
		chunk := balances[from:min(from+s.cfg.BatchSize, len(balances))]
		err := s.retry(ctx, func(ctx context.Context) error {
			return s.insertBalancesOnce(ctx, chunk, updated)
		})
		if err != nil {
			return err
		}
	}
	s.logger.Info("wallet balances saved", zap.Int("addresses", len(balances)))
	return nil
}

// Close flushes queued records and closes the connection.
func (s *Sink) Close() error {
	berr := s.batcher.Stop()
	if berr != nil {
		berr = fmt.Errorf("flush records: %w", berr)
	}
	return errors.Join(berr, s.conn.Close())
}

func (s *Sink) insertRecords(ctx context.Context, records []model.TransactionRecord) error {
	return s.retry(ctx, func(ctx context.Context) error {
		return s.insertRecordsOnce(ctx, records)
	})
}

func (s *Sink) retry(ctx context.Context, fn func(context.Context) error) error {
	attempt := 0
	return clock.Retry(ctx, s.cfg.RetryAttempts, s.cfg.RetryDelay, s.cfg.RetryMaxDelay, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && attempt < s.cfg.RetryAttempts {
			s.logger.Warn("clickhouse insert failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	})
}

func (s *Sink) insertRecordsOnce(ctx context.Context, records []model.TransactionRecord) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("insert_records", err, started)
	}()

	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, insertRecordsQuery)
	if err != nil {
		return fmt.Errorf("prepare records batch: %w", err)
	}

	for _, r := range records {
		if err = batch.Append(
			r.Index,
			r.BlockHash,
			r.Timestamp.UTC(),
			r.TxID,
			nonNilStrings(r.Senders),
			nonNilStrings(r.Receivers),
			nonNilAmounts(r.IndividualSent),
			nonNilAmounts(r.IndividualReceived),
			r.AmountSent,
			r.AmountReceived,
			r.Fee,
			r.Coinbase,
			r.UnresolvedInputs,
		); err != nil {
			return fmt.Errorf("append record %d: %w", r.Index, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}

func (s *Sink) insertBalancesOnce(ctx context.Context, balances []model.Balance, updated time.Time) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("insert_balances", err, started)
	}()

	if len(balances) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, insertBalancesQuery)
	if err != nil {
		return fmt.Errorf("prepare balances batch: %w", err)
	}
	for _, b := range balances {
		if err = batch.Append(b.Address, b.Value, updated); err != nil {
			return fmt.Errorf("append balance %s: %w", b.Address, err)
		}
	}
	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert balances: %w", err)
	}
	return nil
}

// nonNilStrings and nonNilAmounts turn nil slices into empty arrays.
func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilAmounts(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}
