package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/query"
	"github.com/redis/go-redis/v9"
)

// Store reads records written by Sink.
type Store struct {
	rdb     redis.Cmdable
	metrics Metrics
}

// NewStore constructs a Store.
func NewStore(rdb redis.Cmdable, metrics Metrics) *Store {
	return &Store{rdb: rdb, metrics: metrics}
}

// RecordByIndex returns query.ErrNotFound when the hash does not exist.
func (s *Store) RecordByIndex(ctx context.Context, index uint64) (record model.TransactionRecord, err error) {
	started := time.Now()
	defer func() {
		if errors.Is(err, query.ErrNotFound) {
			s.metrics.Observe("record_by_index", nil, started)
			return
		}
		s.metrics.Observe("record_by_index", err, started)
	}()

	fields, err := s.rdb.HGetAll(ctx, recordKey(index)).Result()
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("read %s: %w", recordKey(index), err)
	}
	if len(fields) == 0 {
		return model.TransactionRecord{}, query.ErrNotFound
	}
	return parseFields(fields)
}

// RecordsByTimestamp resolves the score range on the timestamp index and fetches the hashes.
func (s *Store) RecordsByTimestamp(ctx context.Context, start, end time.Time) (records []model.TransactionRecord, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("records_by_timestamp", err, started)
	}()

	members, err := s.rdb.ZRangeByScore(ctx, timestampKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(start.Unix(), 10),
		Max: strconv.FormatInt(end.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("range %s: %w", timestampKey, err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	indexes := make([]uint64, 0, len(members))
	for _, m := range members {
		index, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("member %q of %s: %w", m, timestampKey, err)
		}
		indexes = append(indexes, index)
	}
	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })

	cmds := make([]*redis.MapStringStringCmd, len(indexes))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, index := range indexes {
			cmds[i] = pipe.HGetAll(ctx, recordKey(index))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	records = make([]model.TransactionRecord, 0, len(cmds))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			return nil, fmt.Errorf("%s indexed but missing", recordKey(indexes[i]))
		}
		record, err := parseFields(fields)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
