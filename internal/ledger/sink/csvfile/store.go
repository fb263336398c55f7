package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/query"
)

// Store answers lookups by scanning TransactionsFile. Timestamps are compared as persisted
// strings, which order chronologically for model.TimestampLayout.
type Store struct {
	path    string
	metrics Metrics
}

// NewStore reads the TransactionsFile in dir.
func NewStore(dir string, metrics Metrics) *Store {
	return &Store{path: filepath.Join(dir, TransactionsFile), metrics: metrics}
}

// RecordByIndex returns the row with index.
func (s *Store) RecordByIndex(ctx context.Context, index uint64) (record model.TransactionRecord, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("record_by_index", ignoreNotFound(err), started)
	}()

	found := false
	err = s.scan(ctx, func(row model.FlatRecord) (bool, error) {
		if row.Index != index {
			return true, nil
		}
		record, err = row.Record()
		found = true
		return false, err
	})
	if err != nil {
		return model.TransactionRecord{}, err
	}
	if !found {
		return model.TransactionRecord{}, query.ErrNotFound
	}
	return record, nil
}

// RecordsByTimestamp returns rows with start <= timestamp <= end in file order.
func (s *Store) RecordsByTimestamp(ctx context.Context, start, end time.Time) (records []model.TransactionRecord, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("records_by_timestamp", err, started)
	}()

	from := start.UTC().Format(model.TimestampLayout)
	to := end.UTC().Format(model.TimestampLayout)
	err = s.scan(ctx, func(row model.FlatRecord) (bool, error) {
		if row.Timestamp < from || row.Timestamp > to {
			return true, nil
		}
		record, err := row.Record()
		if err != nil {
			return false, err
		}
		records = append(records, record)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// scan calls fn for every row until fn returns false or an error.
func (s *Store) scan(ctx context.Context, fn func(model.FlatRecord) (bool, error)) error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	um, err := gocsv.NewUnmarshaller(csv.NewReader(file), model.FlatRecord{})
	if err != nil {
		return fmt.Errorf("read header of %s: %w", s.path, err)
	}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := um.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s line %d: %w", s.path, line, err)
		}
		row, ok := v.(model.FlatRecord)
		if !ok {
			return fmt.Errorf("%s line %d: unexpected row type %T", s.path, line, v)
		}
		more, err := fn(row)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", s.path, line, err)
		}
		if !more {
			return nil
		}
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, query.ErrNotFound) {
		return nil
	}
	return err
}
