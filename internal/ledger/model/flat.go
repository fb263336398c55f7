package model

import (
	"fmt"
)

// FlatRecord is the display form of a TransactionRecord: multi-valued fields joined with
// ListSeparator and amounts at display scale. Field order is the persisted column order.
type FlatRecord struct {
	Index              uint64 `csv:"index" json:"index"`
	BlockHash          string `csv:"block_hash" json:"block_hash"`
	Timestamp          string `csv:"timestamp" json:"timestamp"`
	Sender             string `csv:"sender" json:"sender"`
	Receiver           string `csv:"receiver" json:"receiver"`
	AmountReceived     string `csv:"amount_received" json:"amount_received"`
	AmountSent         string `csv:"amount_sent" json:"amount_sent"`
	IndividualSent     string `csv:"individual_sent" json:"individual_sent"`
	IndividualReceived string `csv:"individual_received" json:"individual_received"`
	Fee                string `csv:"fee" json:"fee"`
}

// FlatColumns lists the FlatRecord columns in order.
var FlatColumns = []string{
	"index", "block_hash", "timestamp", "sender", "receiver",
	"amount_received", "amount_sent", "individual_sent", "individual_received", "fee",
}

// Flat returns the display form of r.
func (r TransactionRecord) Flat() FlatRecord {
	return FlatRecord{
		Index:              r.Index,
		BlockHash:          r.BlockHash,
		Timestamp:          r.FormattedTimestamp(),
		Sender:             r.SenderDisplay(),
		Receiver:           r.ReceiverDisplay(),
		AmountReceived:     FormatAmount(r.AmountReceived),
		AmountSent:         FormatAmount(r.AmountSent),
		IndividualSent:     FormatAmounts(r.IndividualSent),
		IndividualReceived: FormatAmounts(r.IndividualReceived),
		Fee:                FormatAmount(r.Fee),
	}
}

// Record parses f back into a TransactionRecord. Fields absent from the flat form (TxID, Coinbase,
// UnresolvedInputs) are left zero.
func (f FlatRecord) Record() (TransactionRecord, error) {
	ts, err := ParseTimestamp(f.Timestamp)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("record %d timestamp: %w", f.Index, err)
	}
	record := TransactionRecord{
		Index:     f.Index,
		BlockHash: f.BlockHash,
		Timestamp: ts,
	}

	amounts := []struct {
		name string
		raw  string
		dst  *int64
	}{
		{"amount_received", f.AmountReceived, &record.AmountReceived},
		{"amount_sent", f.AmountSent, &record.AmountSent},
		{"fee", f.Fee, &record.Fee},
	}
	for _, a := range amounts {
		if *a.dst, err = ParseAmount(a.raw); err != nil {
			return TransactionRecord{}, fmt.Errorf("record %d %s: %w", f.Index, a.name, err)
		}
	}
	if record.IndividualSent, err = ParseAmounts(f.IndividualSent); err != nil {
		return TransactionRecord{}, fmt.Errorf("record %d individual_sent: %w", f.Index, err)
	}
	if record.IndividualReceived, err = ParseAmounts(f.IndividualReceived); err != nil {
		return TransactionRecord{}, fmt.Errorf("record %d individual_received: %w", f.Index, err)
	}
	record.Senders = ParseParties(f.Sender, CoinbaseSender, len(record.IndividualSent))
	record.Receivers = ParseParties(f.Receiver, UnknownAddress, len(record.IndividualReceived))

	if len(record.Senders) != len(record.IndividualSent) || len(record.Receivers) != len(record.IndividualReceived) {
		return TransactionRecord{}, fmt.Errorf("record %d: parties not aligned with amounts", f.Index)
	}
	return record, nil
}
