package model

import (
	"strings"
	"time"
)

const (
	// UnknownAddress is used for outputs that carry no attributable address.
	UnknownAddress = "Unknown"
	// CoinbaseSender is displayed when no input of a transaction resolved.
	CoinbaseSender = "Coinbase"
	// TimestampLayout is the persisted timestamp form. It sorts lexicographically in chronological order.
	TimestampLayout = "2006-01-02 15:04:05"
	// ListSeparator joins multi-valued fields in flat records.
	ListSeparator = "; "
)

// RecordedOutput is one unspent output tracked by the output ledger.
type RecordedOutput struct {
	Value int64
	Owner string
}

// OwnerOrUnknown returns the owner or UnknownAddress when the output is unattributable.
func (o RecordedOutput) OwnerOrUnknown() string {
	if o.Owner == "" {
		return UnknownAddress
	}
	return o.Owner
}

// OutputKey identifies an output by transaction id and position.
type OutputKey struct {
	TxID  string
	Index uint32
}

// TransactionRecord is the durable per-transaction result of the extraction pass.
type TransactionRecord struct {
	Index              uint64
	BlockHash          string
	Timestamp          time.Time
	TxID               string
	Senders            []string
	Receivers          []string
	IndividualSent     []int64
	IndividualReceived []int64
	AmountSent         int64
	AmountReceived     int64
	Fee                int64
	Coinbase           bool
	UnresolvedInputs   uint32
}

// SenderDisplay joins senders for flat records, falling back to CoinbaseSender.
func (r TransactionRecord) SenderDisplay() string {
	if len(r.Senders) == 0 {
		return CoinbaseSender
	}
	return strings.Join(r.Senders, ListSeparator)
}

// ReceiverDisplay joins receivers for flat records, falling back to UnknownAddress.
func (r TransactionRecord) ReceiverDisplay() string {
	if len(r.Receivers) == 0 {
		return UnknownAddress
	}
	return strings.Join(r.Receivers, ListSeparator)
}

// FormattedTimestamp returns the timestamp in TimestampLayout, UTC.
func (r TransactionRecord) FormattedTimestamp() string {
	return r.Timestamp.UTC().Format(TimestampLayout)
}

// ParseParties reverses SenderDisplay/ReceiverDisplay. The sentinel only collapses to an empty
// list when no amounts are aligned with it.
func ParseParties(display, sentinel string, amounts int) []string {
	if amounts == 0 && (display == sentinel || display == "") {
		return nil
	}
	return strings.Split(display, ListSeparator)
}

// ParseTimestamp parses a timestamp in TimestampLayout as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, value, time.UTC)
}

// Balance is the signed running total of an address.
type Balance struct {
	Address string
	Value   int64
}
