package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/safe"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultBalanceChunk = 1000

// Sink writes each record as a hash plus a timestamp index entry in one MULTI/EXEC.
type Sink struct {
	client       *redis.Client
	metrics      Metrics
	logger       *zap.Logger
	balanceChunk int
}

// NewSink constructs a Sink. Close closes client.
func NewSink(client *redis.Client, metrics Metrics, logger *zap.Logger) *Sink {
	return &Sink{client: client, metrics: metrics, logger: logger, balanceChunk: defaultBalanceChunk}
}

// Commit stores record.
func (s *Sink) Commit(ctx context.Context, record model.TransactionRecord) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("commit", err, started)
	}()

	key := recordKey(record.Index)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, recordFields(record))
		pipe.ZAdd(ctx, timestampKey, redis.Z{
			Score:  float64(record.Timestamp.Unix()),
			Member: strconv.FormatUint(record.Index, 10),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// CommitBalances writes every balance, pipelining balanceChunk keys at a time.
func (s *Sink) CommitBalances(ctx context.Context, balances []model.Balance) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("commit_balances", err, started)
	}()

	for from := 0; from < len(balances); from += s.balanceChunk {
		to := min(from+s.balanceChunk, len(balances))
		_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, b := range balances[from:to] {
				pipe.Set(ctx, balanceKey(b.Address), model.FormatAmount(b.Value), 0)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("store balances %d-%d: %w", from, to, err)
		}
	}
	s.logger.Info("wallet balances saved", zap.Int("addresses", len(balances)))
	return nil
}

// Close closes the client.
func (s *Sink) Close() error {
	return s.client.Close()
}

func recordFields(record model.TransactionRecord) map[string]interface{} {
	flat := record.Flat()
	return map[string]interface{}{
		"index":               strconv.FormatUint(flat.Index, 10),
		"block_hash":          flat.BlockHash,
		"timestamp":           flat.Timestamp,
		"sender":              flat.Sender,
		"receiver":            flat.Receiver,
		"amount_received":     flat.AmountReceived,
		"amount_sent":         flat.AmountSent,
		"individual_sent":     flat.IndividualSent,
		"individual_received": flat.IndividualReceived,
		"fee":                 flat.Fee,
		fieldTxID:             record.TxID,
		fieldCoinbase:         strconv.FormatBool(record.Coinbase),
		fieldUnresolvedInputs: strconv.FormatUint(uint64(record.UnresolvedInputs), 10),
	}
}

func parseFields(fields map[string]string) (model.TransactionRecord, error) {
	index, err := strconv.ParseUint(fields["index"], 10, 64)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("index: %w", err)
	}
	record, err := model.FlatRecord{
		Index:              index,
		BlockHash:          fields["block_hash"],
		Timestamp:          fields["timestamp"],
		Sender:             fields["sender"],
		Receiver:           fields["receiver"],
		AmountReceived:     fields["amount_received"],
		AmountSent:         fields["amount_sent"],
		IndividualSent:     fields["individual_sent"],
		IndividualReceived: fields["individual_received"],
		Fee:                fields["fee"],
	}.Record()
	if err != nil {
		return model.TransactionRecord{}, err
	}

	record.TxID = fields[fieldTxID]
	if v, ok := fields[fieldCoinbase]; ok {
		if record.Coinbase, err = strconv.ParseBool(v); err != nil {
			return model.TransactionRecord{}, fmt.Errorf("record %d coinbase: %w", index, err)
		}
	}
	if v, ok := fields[fieldUnresolvedInputs]; ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			record.UnresolvedInputs, err = safe.Uint32(n)
		}
		if err != nil {
			return model.TransactionRecord{}, fmt.Errorf("record %d unresolved_inputs: %w", index, err)
		}
	}
	return record, nil
}
