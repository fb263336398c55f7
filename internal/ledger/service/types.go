// Package service drives the single-threaded ledger extraction pass.
package service

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BlockSource yields decoded blocks. It returns io.EOF when exhausted and an error wrapping
	// model.ErrDecode for a block that could not be decoded.
	BlockSource interface {
		Next(ctx context.Context) (*model.Block, error)
		Close() error
	}
	// Sink persists committed records and the final balances.
	Sink interface {
		Commit(ctx context.Context, record model.TransactionRecord) error
		CommitBalances(ctx context.Context, balances []model.Balance) error
		Close() error
	}
	ExtractorMetrics interface {
		ObserveDecodeFailure()
		ObserveBlock(err error, started time.Time)
		ObserveTransaction(err error, unresolvedInputs uint32)
		ObserveLedger(liveOutputs, addresses int)
		ObservePass(err error, started time.Time)
	}
)
