// Package main serves ledger lookups over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/query"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/sink/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/sink/csvfile"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/sink/redis"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/transport"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type config struct {
	Addr          string `long:"addr" env:"LEDGER_API_ADDR" description:"http listen address" default:":8001"`
	Store         string `long:"store" env:"LEDGER_API_STORE" description:"record store" choice:"csv" choice:"redis" choice:"clickhouse" default:"csv"`
	DataDir       string `long:"data-dir" env:"LEDGER_API_DATA_DIR" description:"directory with csv output" default:"."`
	RedisURL      string `long:"redis-url" env:"LEDGER_API_REDIS_URL" description:"Redis URL" default:"redis://localhost:6379/0"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"LEDGER_API_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
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
		logger.Fatal("ledger api failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	svc := query.NewService(store, metrics.NewQuery(), logger.Named("query"))

	mux := http.NewServeMux()
	transport.NewLedgerHandler(svc, logger.Named("http")).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.Addr), zap.String("store", cfg.Store))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func newStore(ctx context.Context, cfg config) (query.Store, func() error, error) {
	switch cfg.Store {
	case "redis":
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewStore(client, metrics.NewSink("redis")), client.Close, nil
	case "clickhouse":
		conn, err := clickhouse.Open(cfg.ClickhouseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("init clickhouse: %w", err)
		}
		return clickhouse.NewStore(conn, metrics.NewSink("clickhouse")), conn.Close, nil
	default:
		return csvfile.NewStore(cfg.DataDir, metrics.NewSink("csv")), func() error { return nil }, nil
	}
}
