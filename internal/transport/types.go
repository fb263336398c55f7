package transport

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// Querier answers ledger lookups.
type Querier interface {
	ByIndex(ctx context.Context, index uint64) (model.TransactionRecord, error)
	ByTimestamp(ctx context.Context, start string, end *string) ([]model.TransactionRecord, error)
}
