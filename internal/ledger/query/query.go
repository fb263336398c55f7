// Package query answers point and range lookups over persisted ledger records.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no record has the requested index.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTimestamp is returned for timestamps not in model.TimestampLayout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

const (
	operationByIndex     = "by_index"
	operationByTimestamp = "by_timestamp"

	statusSuccess      = "success"
	statusNotFound     = "not_found"
	statusInvalidInput = "invalid_input"
	statusInvalidRange = "invalid_range"
	statusError        = "error"
)

// Service serves lookups from a Store.
type Service struct {
	store   Store
	metrics Metrics
	logger  *zap.Logger
}

// NewService constructs a Service.
func NewService(store Store, metrics Metrics, logger *zap.Logger) *Service {
	return &Service{store: store, metrics: metrics, logger: logger}
}

// ByIndex returns the record with the given index.
func (s *Service) ByIndex(ctx context.Context, index uint64) (record model.TransactionRecord, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe(operationByIndex, status(err), started)
	}()

	if index == 0 {
		return model.TransactionRecord{}, fmt.Errorf("index 0: %w", ErrNotFound)
	}
	record, err = s.store.RecordByIndex(ctx, index)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("record %d: %w", index, err)
	}
	return record, nil
}

// ByTimestamp returns records whose timestamp lies in [start, end]. A nil end selects records at
// exactly start. A range with start after end yields no records and no error.
func (s *Service) ByTimestamp(ctx context.Context, start string, end *string) (records []model.TransactionRecord, err error) {
	started := time.Now()
	invalidRange := false
	defer func() {
		st := status(err)
		if invalidRange {
			st = statusInvalidRange
		}
		s.metrics.Observe(operationByTimestamp, st, started)
	}()

	from, err := parse(start)
	if err != nil {
		return nil, err
	}
	to := from
	if end != nil {
		if to, err = parse(*end); err != nil {
			return nil, err
		}
	}

	if from.After(to) {
		invalidRange = true
		s.logger.Warn("invalid timestamp range",
			zap.String("start", start),
			zap.String("end", *end),
		)
		return []model.TransactionRecord{}, nil
	}

	records, err = s.store.RecordsByTimestamp(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("records between %s and %s: %w", from.Format(model.TimestampLayout), to.Format(model.TimestampLayout), err)
	}
	if records == nil {
		records = []model.TransactionRecord{}
	}
	return records, nil
}

func parse(value string) (time.Time, error) {
	ts, err := model.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidTimestamp, value, err)
	}
	return ts, nil
}

func status(err error) string {
	switch {
	case err == nil:
		return statusSuccess
	case errors.Is(err, ErrNotFound):
		return statusNotFound
	case errors.Is(err, ErrInvalidTimestamp):
		return statusInvalidInput
	default:
		return statusError
	}
}
