package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/safe"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	defaultPrefetch = 16
	defaultWorkers  = 4
)

// RPCSourceConfig bounds the heights read from the node.
type RPCSourceConfig struct {
	StartHeight uint64
	// StopHeight is inclusive. Nil means the node tip at the time the window is filled.
	StopHeight *uint64
	Prefetch   int
	Workers    int
}

// RPCSource yields blocks in height order, fetching a window of heights concurrently.
type RPCSource struct {
	client  NodeClient
	decoder *ScriptDecoder
	cfg     RPCSourceConfig
	logger  *zap.Logger

	next    uint64
	tip     uint64
	tipRead bool
	window  []*model.Block
	pending []error
}

// NewRPCSource constructs a source reading from client.
func NewRPCSource(client NodeClient, decoder *ScriptDecoder, cfg RPCSourceConfig, logger *zap.Logger) (*RPCSource, error) {
	if client == nil {
		return nil, errors.New("node client is required")
	}
	if decoder == nil {
		return nil, errors.New("script decoder is required")
	}
	if cfg.StopHeight != nil && *cfg.StopHeight < cfg.StartHeight {
		return nil, fmt.Errorf("stop height %d below start height %d", *cfg.StopHeight, cfg.StartHeight)
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = defaultPrefetch
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &RPCSource{
		client:  client,
		decoder: decoder,
		cfg:     cfg,
		logger:  logger,
		next:    cfg.StartHeight,
	}, nil
}

// Next returns the block at the next height, io.EOF past the last height.
func (s *RPCSource) Next(ctx context.Context) (*model.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.window) == 0 {
		if err := s.fill(ctx); err != nil {
			return nil, err
		}
	}
	block, err := s.window[0], s.pending[0]
	s.window, s.pending = s.window[1:], s.pending[1:]
	return block, err
}

func (s *RPCSource) fill(ctx context.Context) error {
	last, err := s.lastHeight()
	if err != nil {
		return err
	}
	if s.next > last {
		return io.EOF
	}

	heights := make([]uint64, 0, s.cfg.Prefetch)
	for h := s.next; h <= last && len(heights) < s.cfg.Prefetch; h++ {
		heights = append(heights, h)
	}

	type fetched struct {
		block *model.Block
		err   error
	}
	results, err := workerpool.Map(ctx, s.cfg.Workers, heights, func(_ context.Context, height uint64) (fetched, error) {
		block, err := s.fetch(height)
		if errors.Is(err, model.ErrDecode) {
			return fetched{err: err}, nil
		}
		return fetched{block: block}, err
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		s.window = append(s.window, r.block)
		s.pending = append(s.pending, r.err)
	}
	s.next = heights[len(heights)-1] + 1
	s.logger.Debug("fetched blocks", zap.Uint64("from", heights[0]), zap.Uint64("to", s.next-1))
	return nil
}

// lastHeight is the stop height when set, otherwise the node tip read once per pass.
func (s *RPCSource) lastHeight() (uint64, error) {
	if s.cfg.StopHeight != nil {
		return *s.cfg.StopHeight, nil
	}
	if !s.tipRead {
		count, err := s.client.GetBlockCount()
		if err != nil {
			return 0, fmt.Errorf("get block count: %w", err)
		}
		tip, err := safe.Uint64(count)
		if err != nil {
			return 0, fmt.Errorf("block count %d: %w", count, err)
		}
		s.tip, s.tipRead = tip, true
		s.logger.Info("node tip", zap.Uint64("height", tip))
	}
	return s.tip, nil
}

func (s *RPCSource) fetch(height uint64) (*model.Block, error) {
	h, err := safe.Int64(height)
	if err != nil {
		return nil, err
	}
	hash, err := s.client.GetBlockHash(h)
	if err != nil {
		return nil, fmt.Errorf("get block hash %d: %w", height, err)
	}
	res, err := s.client.GetBlockVerboseTx(hash)
	if err != nil {
		return nil, fmt.Errorf("get block %d (%s): %w", height, hash, err)
	}
	block, err := s.decoder.ConvertVerboseBlock(res)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDecode, err)
	}
	return &block, nil
}

// Close is a no-op; the node client is owned by the caller.
func (s *RPCSource) Close() error {
	return nil
}
