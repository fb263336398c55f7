// Package csvfile persists ledger records and balances as CSV files and reads records back.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"go.uber.org/zap"
)

const (
	// TransactionsFile holds one row per committed record.
	TransactionsFile = "transactions_output.csv"
	// BalancesFile holds the final balance of every address.
	BalancesFile = "wallet_balances.csv"
)

var balanceColumns = []string{"wallet_id", "balance"}

// Sink appends records to TransactionsFile and writes BalancesFile once.
type Sink struct {
	dir     string
	file    *os.File
	writer  *gocsv.SafeCSVWriter
	metrics Metrics
	logger  *zap.Logger
	closed  bool
}

// NewSink truncates TransactionsFile in dir and writes its header.
func NewSink(dir string, metrics Metrics, logger *zap.Logger) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, TransactionsFile)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(file))
	if err := writeRow(writer, model.FlatColumns); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	logger.Info("writing transactions", zap.String("path", path))

	return &Sink{dir: dir, file: file, writer: writer, metrics: metrics, logger: logger}, nil
}

// Commit appends one row and flushes it.
func (s *Sink) Commit(_ context.Context, record model.TransactionRecord) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("commit", err, started)
	}()

	if s.closed {
		return errors.New("csv sink closed")
	}
	if err = gocsv.MarshalCSVWithoutHeaders([]model.FlatRecord{record.Flat()}, s.writer); err != nil {
		return fmt.Errorf("write record %d: %w", record.Index, err)
	}
	return nil
}

// CommitBalances writes BalancesFile, replacing any previous content.
func (s *Sink) CommitBalances(_ context.Context, balances []model.Balance) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("commit_balances", err, started)
	}()

	path := filepath.Join(s.dir, BalancesFile)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	writer := gocsv.NewSafeCSVWriter(csv.NewWriter(file))
	if err = writer.Write(balanceColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range balances {
		if err = writer.Write([]string{b.Address, model.FormatAmount(b.Value)}); err != nil {
			return fmt.Errorf("write balance %s: %w", b.Address, err)
		}
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	s.logger.Info("wallet balances saved", zap.String("path", path), zap.Int("addresses", len(balances)))
	return nil
}

// Close flushes and closes TransactionsFile.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.writer.Flush()
	werr := s.writer.Error()
	cerr := s.file.Close()
	return errors.Join(werr, cerr)
}

func writeRow(w *gocsv.SafeCSVWriter, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
