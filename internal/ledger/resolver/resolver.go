// Package resolver turns decoded transactions into ledger records by resolving their inputs
// against the output ledger.
package resolver

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/balance"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/outputs"
)

var (
	errEmptyTxID     = errors.New("empty transaction id")
	errInvalidValue  = errors.New("output value out of range")
	errAmountOverrun = errors.New("amount overflow")
)

// TransactionError reports a transaction that was skipped. Nothing it touched is left in the
// ledger or the balances.
type TransactionError struct {
	TxID string
	Err  error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("resolve transaction %s: %v", e.TxID, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// BlockContext carries the fields of the enclosing block copied into each record.
type BlockContext struct {
	Hash      string
	Timestamp time.Time
}

// Resolver resolves transactions strictly in the order they are handed in.
type Resolver struct {
	ledger   *outputs.Ledger
	balances *balance.Accumulator
	next     uint64
}

// New builds a Resolver over an explicitly owned ledger and accumulator.
func New(ledger *outputs.Ledger, balances *balance.Accumulator) *Resolver {
	return &Resolver{ledger: ledger, balances: balances}
}

// LastIndex returns the index of the last committed record, zero before the first one.
func (r *Resolver) LastIndex() uint64 {
	return r.next
}

type delta struct {
	address string
	amount  int64
}

// Resolve resolves inputs, records outputs and returns the committed record. On error the ledger,
// balances and index counter are unchanged.
func (r *Resolver) Resolve(block BlockContext, tx model.Transaction) (model.TransactionRecord, error) {
	if err := r.validate(tx); err != nil {
		return model.TransactionRecord{}, &TransactionError{TxID: tx.TxID, Err: err}
	}

	record := model.TransactionRecord{
		BlockHash: block.Hash,
		Timestamp: block.Timestamp.UTC(),
		TxID:      tx.TxID,
		Coinbase:  tx.Coinbase,
	}
	debits := make([]delta, 0, len(tx.Inputs))
	journal := r.ledger.Begin()

	for _, in := range tx.Inputs {
		prev, ok := journal.Resolve(in.TransactionHash, in.OutputIndex)
		if !ok {
			if !tx.Coinbase {
				record.UnresolvedInputs++
			}
			continue
		}
		sum, err := add(record.AmountSent, prev.Value)
		if err != nil {
			journal.Rollback()
			return model.TransactionRecord{}, &TransactionError{TxID: tx.TxID, Err: err}
		}
		record.AmountSent = sum
		record.IndividualSent = append(record.IndividualSent, prev.Value)
		record.Senders = append(record.Senders, prev.OwnerOrUnknown())
		if prev.Owner != "" {
			debits = append(debits, delta{address: prev.Owner, amount: prev.Value})
		}
	}

	recorded := make([]model.RecordedOutput, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		sum, err := add(record.AmountReceived, out.Value)
		if err != nil {
			journal.Rollback()
			return model.TransactionRecord{}, &TransactionError{TxID: tx.TxID, Err: err}
		}
		record.AmountReceived = sum
		record.IndividualReceived = append(record.IndividualReceived, out.Value)
		owned := model.RecordedOutput{Value: out.Value, Owner: out.Address}
		record.Receivers = append(record.Receivers, owned.OwnerOrUnknown())
		recorded = append(recorded, owned)
	}
	if err := journal.Record(tx.TxID, recorded); err != nil {
		journal.Rollback()
		return model.TransactionRecord{}, &TransactionError{TxID: tx.TxID, Err: err}
	}

	if record.AmountSent > 0 {
		record.Fee = record.AmountSent - record.AmountReceived
	}

	for _, d := range debits {
		r.balances.Debit(d.address, d.amount)
	}
	for _, out := range recorded {
		r.balances.Credit(out.Owner, out.Value)
	}

	r.next++
	record.Index = r.next
	return record, nil
}

func (r *Resolver) validate(tx model.Transaction) error {
	if tx.TxID == "" {
		return errEmptyTxID
	}
	for i, out := range tx.Outputs {
		if out.Value < 0 || out.Value > btcutil.MaxSatoshi {
			return fmt.Errorf("output %d value %d: %w", i, out.Value, errInvalidValue)
		}
	}
	if r.ledger.Recorded(tx.TxID) {
		return fmt.Errorf("record %s: %w", tx.TxID, outputs.ErrDuplicateTransactionID)
	}
	return nil
}

func add(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, fmt.Errorf("%d + %d: %w", a, b, errAmountOverrun)
	}
	return a + b, nil
}
