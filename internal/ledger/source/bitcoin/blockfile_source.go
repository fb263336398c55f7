package bitcoin

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"go.uber.org/zap"
)

const (
	blockFilePattern = "blk[0-9][0-9][0-9][0-9][0-9].dat"
	xorKeyFile       = "xor.dat"
	recordHeaderSize = 8
)

// BlockFileSource reads blocks from a Bitcoin Core blocks directory in file order. File order is
// not chain order, so a spend may be seen before the output it consumes.
type BlockFileSource struct {
	files   []string
	magic   uint32
	key     []byte
	decoder *ScriptDecoder
	logger  *zap.Logger

	fileIdx int
	file    *os.File
	reader  *bufio.Reader
	name    string
	offset  int64
}

// NewBlockFileSource lists the block files of dir. magic is the network magic of the chain.
func NewBlockFileSource(dir string, magic wire.BitcoinNet, decoder *ScriptDecoder, logger *zap.Logger) (*BlockFileSource, error) {
	if decoder == nil {
		return nil, errors.New("script decoder is required")
	}
	files, err := filepath.Glob(filepath.Join(dir, blockFilePattern))
	if err != nil {
		return nil, fmt.Errorf("list block files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no block files in %s", dir)
	}
	sort.Strings(files)

	key, err := readXORKey(filepath.Join(dir, xorKeyFile))
	if err != nil {
		return nil, err
	}
	if len(key) > 0 {
		logger.Info("block files are obfuscated", zap.Int("key_size", len(key)))
	}

	return &BlockFileSource{
		files:   files,
		magic:   uint32(magic),
		key:     key,
		decoder: decoder,
		logger:  logger,
	}, nil
}

func readXORKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read xor key: %w", err)
	}
	for _, b := range key {
		if b != 0 {
			return key, nil
		}
	}
	return nil, nil
}

// Next returns the next block record, io.EOF after the last file.
func (s *BlockFileSource) Next(ctx context.Context) (*model.Block, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.file == nil {
			if s.fileIdx >= len(s.files) {
				return nil, io.EOF
			}
			if err := s.open(s.files[s.fileIdx]); err != nil {
				return nil, err
			}
			s.fileIdx++
		}

		block, err := s.readRecord()
		if errors.Is(err, io.EOF) {
			s.closeFile()
			continue
		}
		return block, err
	}
}

func (s *BlockFileSource) open(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open block file: %w", err)
	}
	s.file = f
	s.name = filepath.Base(name)
	s.offset = 0
	s.reader = bufio.NewReaderSize(&xorReader{r: f, key: s.key}, 1<<20)
	s.logger.Debug("reading block file", zap.String("file", s.name))
	return nil
}

// readRecord returns io.EOF when the current file has no more records.
func (s *BlockFileSource) readRecord() (*model.Block, error) {
	var header [recordHeaderSize]byte
	n, err := io.ReadFull(s.reader, header[:])
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		s.logger.Warn("truncated record header", zap.String("file", s.name), zap.Int64("offset", s.offset), zap.Int("bytes", n))
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}

	magic := binary.LittleEndian.Uint32(header[0:4])
	if magic == 0 {
		// Preallocated space at the end of the file.
		return nil, io.EOF
	}
	size := binary.LittleEndian.Uint32(header[4:8])
	at := s.offset
	s.offset += recordHeaderSize
	if magic != s.magic || size > wire.MaxBlockPayload {
		s.closeFile()
		return nil, fmt.Errorf("%w: %s at offset %d: magic %#x size %d, skipping rest of file",
			model.ErrDecode, s.name, at, magic, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		s.closeFile()
		return nil, fmt.Errorf("%w: %s at offset %d: %w", model.ErrDecode, s.name, at, err)
	}
	s.offset += int64(size)

	block, err := s.decoder.DecodeBlock(payload)
	if err != nil {
		return nil, fmt.Errorf("%s at offset %d: %w", s.name, at, err)
	}
	return block, nil
}

func (s *BlockFileSource) closeFile() {
	if s.file == nil {
		return
	}
	if err := s.file.Close(); err != nil {
		s.logger.Warn("close block file", zap.String("file", s.name), zap.Error(err))
	}
	s.file, s.reader = nil, nil
}

// Close releases the open block file.
func (s *BlockFileSource) Close() error {
	s.closeFile()
	s.fileIdx = len(s.files)
	return nil
}

// xorReader undoes the obfuscation of block files written with a non-zero xor.dat key.
type xorReader struct {
	r   io.Reader
	key []byte
	off int
}

func (x *xorReader) Read(p []byte) (int, error) {
	n, err := x.r.Read(p)
	if len(x.key) > 0 {
		for i := 0; i < n; i++ {
			p[i] ^= x.key[(x.off+i)%len(x.key)]
		}
		x.off = (x.off + n) % len(x.key)
	}
	return n, err
}
