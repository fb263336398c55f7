// Package main runs one ledger extraction pass over a Bitcoin block source.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/service"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/sink/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/sink/csvfile"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/sink/redis"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/source/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/metrics"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	Coin        model.Coin    `long:"coin" env:"LEDGER_EXTRACTOR_COIN" description:"coin name" default:"BTC"`
	Network     model.Network `long:"network" env:"LEDGER_EXTRACTOR_NETWORK" description:"network name" default:"mainnet"`
	Source      string        `long:"source" env:"LEDGER_EXTRACTOR_SOURCE" description:"block source" choice:"blkfile" choice:"rpc" default:"blkfile"`
	BlocksDir   string        `long:"blocks-dir" env:"LEDGER_EXTRACTOR_BLOCKS_DIR" description:"directory with blk*.dat files"`
	RPCURL      string        `long:"rpc-url" env:"LEDGER_EXTRACTOR_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser     string        `long:"rpc-user" env:"LEDGER_EXTRACTOR_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword string        `long:"rpc-password" env:"LEDGER_EXTRACTOR_RPC_PASSWORD" description:"Bitcoin RPC password"`
	StartHeight uint64        `long:"start-height" env:"LEDGER_EXTRACTOR_START_HEIGHT" description:"first block height for the rpc source" default:"0"`
	StopHeight  int64         `long:"stop-height" env:"LEDGER_EXTRACTOR_STOP_HEIGHT" description:"last block height for the rpc source, negative means the node tip" default:"-1"`
	Prefetch    int           `long:"prefetch" env:"LEDGER_EXTRACTOR_PREFETCH" description:"blocks fetched ahead by the rpc source" default:"16"`
	Workers     int           `long:"workers" env:"LEDGER_EXTRACTOR_WORKERS" description:"concurrent rpc block fetches" default:"4"`

	Sink          string `long:"sink" env:"LEDGER_EXTRACTOR_SINK" description:"record sink" choice:"csv" choice:"redis" choice:"clickhouse" default:"csv"`
	OutputDir     string `long:"output-dir" env:"LEDGER_EXTRACTOR_OUTPUT_DIR" description:"directory for csv output" default:"."`
	RedisURL      string `long:"redis-url" env:"LEDGER_EXTRACTOR_REDIS_URL" description:"Redis URL" default:"redis://localhost:6379/0"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"LEDGER_EXTRACTOR_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	BatchSize     int    `long:"batch-size" env:"LEDGER_EXTRACTOR_BATCH_SIZE" description:"ClickHouse insert batch size" default:"10000"`

	Limit            uint64 `long:"limit" env:"LEDGER_EXTRACTOR_LIMIT" description:"stop after this many transactions, 0 means no limit" default:"0"`
	ProgressInterval uint64 `long:"progress-interval" env:"LEDGER_EXTRACTOR_PROGRESS_INTERVAL" description:"blocks between progress logs" default:"1000"`
	MetricsAddr      string `long:"metrics-addr" env:"LEDGER_EXTRACTOR_METRICS_ADDR" description:"address for metrics server" default:":2112"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("ledger extractor failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	params, err := bitcoin.ChainParams(cfg.Network)
	if err != nil {
		return err
	}
	decoder := bitcoin.NewScriptDecoder(params)

	source, cleanup, err := newSource(cfg, decoder, logger.Named("source"))
	if err != nil {
		return err
	}
	defer cleanup()

	sink, err := newSink(ctx, cfg, logger.Named("sink"))
	if err != nil {
		_ = source.Close()
		return err
	}

	extractor, err := service.NewExtractor(
		source,
		sink,
		metrics.NewExtractor(cfg.Coin, cfg.Network),
		service.Config{
			TransactionLimit: cfg.Limit,
			ProgressInterval: cfg.ProgressInterval,
		},
		logger.Named("extractor"),
	)
	if err != nil {
		_ = source.Close()
		_ = sink.Close()
		return err
	}

	_, err = extractor.Run(ctx)
	if cleanStop(err) {
		return nil
	}
	return err
}

// stopHeight maps the flag to an inclusive stop height, nil for the node tip.
func stopHeight(flag int64) *uint64 {
	if flag < 0 {
		return nil
	}
	h := uint64(flag)
	return &h
}

// cleanStop reports whether a pass ended normally or by cancellation. Sink failures are never clean,
// even when they carry the cancellation cause.
func cleanStop(err error) bool {
	if err == nil {
		return true
	}
	return !errors.Is(err, service.ErrSink) && errors.Is(err, context.Canceled)
}

func newSource(cfg config, decoder *bitcoin.ScriptDecoder, logger *zap.Logger) (service.BlockSource, func(), error) {
	switch cfg.Source {
	case "rpc":
		client, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("init btc rpc client: %w", err)
		}
		shutdown := func() {
			client.Shutdown()
			client.WaitForShutdown()
		}
		observed := bitcoin.NewRPCClient(client, metrics.NewRPCClient(cfg.Coin, cfg.Network))
		source, err := bitcoin.NewRPCSource(observed, decoder, bitcoin.RPCSourceConfig{
			StartHeight: cfg.StartHeight,
			StopHeight:  stopHeight(cfg.StopHeight),
			Prefetch:    cfg.Prefetch,
			Workers:     cfg.Workers,
		}, logger)
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		return source, shutdown, nil
	default:
		if cfg.BlocksDir == "" {
			return nil, nil, errors.New("blocks dir is required for the blkfile source")
		}
		params, err := bitcoin.ChainParams(cfg.Network)
		if err != nil {
			return nil, nil, err
		}
		source, err := bitcoin.NewBlockFileSource(cfg.BlocksDir, params.Net, decoder, logger)
		if err != nil {
			return nil, nil, err
		}
		return source, func() {}, nil
	}
}

func newSink(ctx context.Context, cfg config, logger *zap.Logger) (service.Sink, error) {
	switch cfg.Sink {
	case "redis":
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return redis.NewSink(client, metrics.NewSink("redis"), logger), nil
	case "clickhouse":
		conn, err := clickhouse.Open(cfg.ClickhouseDSN)
		if err != nil {
			return nil, fmt.Errorf("init clickhouse: %w", err)
		}
		return clickhouse.NewSink(ctx, conn, clickhouse.SinkConfig{BatchSize: cfg.BatchSize}, metrics.NewSink("clickhouse"), logger), nil
	default:
		return csvfile.NewSink(cfg.OutputDir, metrics.NewSink("csv"), logger)
	}
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
