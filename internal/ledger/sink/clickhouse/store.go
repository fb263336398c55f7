package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/query"
)

const selectRecordColumns = `
SELECT
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
FROM ledger_transactions FINAL`

const (
	recordByIndexQuery      = selectRecordColumns + "\nWHERE seq_index = ?\nLIMIT 1"
	recordsByTimestampQuery = selectRecordColumns + "\nWHERE timestamp BETWEEN ? AND ?\nORDER BY seq_index ASC"
)

// Store reads records written by Sink.
type Store struct {
	conn    Conn
	metrics Metrics
}

// NewStore constructs a Store.
func NewStore(conn Conn, metrics Metrics) *Store {
	return &Store{conn: conn, metrics: metrics}
}

// RecordByIndex returns query.ErrNotFound when no row has index.
func (s *Store) RecordByIndex(ctx context.Context, index uint64) (model.TransactionRecord, error) {
	start := time.Now()
	var err error
	defer func() {
		observed := err
		if errors.Is(err, query.ErrNotFound) {
			observed = nil
		}
		s.metrics.Observe("record_by_index", observed, start)
	}()

	records, err := s.query(ctx, recordByIndexQuery, index)
	if err != nil {
		return model.TransactionRecord{}, err
	}
	if len(records) == 0 {
		err = query.ErrNotFound
		return model.TransactionRecord{}, err
	}
	return records[0], nil
}

// RecordsByTimestamp returns rows with start <= timestamp <= end ordered by index.
func (s *Store) RecordsByTimestamp(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error) {
	started := time.Now()
	var err error
	defer func() {
		s.metrics.Observe("records_by_timestamp", err, started)
	}()

	var records []model.TransactionRecord
	records, err = s.query(ctx, recordsByTimestampQuery, start.UTC(), end.UTC())
	return records, err
}

func (s *Store) query(ctx context.Context, q string, args ...any) (records []model.TransactionRecord, err error) {
	rows, err := s.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var r model.TransactionRecord
		if err = rows.Scan(
			&r.Index,
			&r.BlockHash,
			&r.Timestamp,
			&r.TxID,
			&r.Senders,
			&r.Receivers,
			&r.IndividualSent,
			&r.IndividualReceived,
			&r.AmountSent,
			&r.AmountReceived,
			&r.Fee,
			&r.Coinbase,
			&r.UnresolvedInputs,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, normalize(r))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// normalize maps empty arrays back to nil slices and the timestamp to UTC.
func normalize(r model.TransactionRecord) model.TransactionRecord {
	r.Timestamp = r.Timestamp.UTC()
	if len(r.Senders) == 0 {
		r.Senders = nil
	}
	if len(r.Receivers) == 0 {
		r.Receivers = nil
	}
	if len(r.IndividualSent) == 0 {
		r.IndividualSent = nil
	}
	if len(r.IndividualReceived) == 0 {
		r.IndividualReceived = nil
	}
	return r
}
