package query

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

type (
	// Store reads records back from whatever a sink persisted.
	Store interface {
		// RecordByIndex returns ErrNotFound when no record has index.
		RecordByIndex(ctx context.Context, index uint64) (model.TransactionRecord, error)
		// RecordsByTimestamp returns records with start <= timestamp <= end, ordered by index.
		RecordsByTimestamp(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error)
	}

	// Metrics records query outcomes.
	Metrics interface {
		Observe(operation, status string, started time.Time)
	}
)
