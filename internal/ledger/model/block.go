// Package model defines domain models for ledger extraction.
package model

import (
	"errors"
	"time"
)

// ErrDecode marks a block whose bytes could not be interpreted. Sources wrap it so the
// extraction pass can skip the block and keep going.
var ErrDecode = errors.New("decode block")

// Block is a decoded block as handed to the extraction pass.
type Block struct {
	Hash string
	// Height is only meaningful when HeightKnown is set; block files do not carry it.
	Height       uint64
	HeightKnown  bool
	Timestamp    time.Time
	Transactions []Transaction
}

// Transaction is a decoded transaction with its inputs and outputs in block order.
type Transaction struct {
	TxID     string
	Inputs   []Input
	Outputs  []Output
	Coinbase bool
}

// Input references a previously created output.
type Input struct {
	TransactionHash string
	OutputIndex     uint32
}

// Output is a newly created output. Address is empty for scripts without a standard address.
type Output struct {
	Value   int64
	Address string
}
