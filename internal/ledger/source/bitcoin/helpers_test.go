package bitcoin

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

var testParams = &chaincfg.RegressionNetParams

func p2pkh(t *testing.T, seed byte) ([]byte, string) {
	t.Helper()
	addr, err := btcutil.NewAddressPubKeyHash(bytes.Repeat([]byte{seed}, 20), testParams)
	require.NoError(t, err)
	script, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)
	return script, addr.EncodeAddress()
}

func coinbaseTx(script []byte, value int64, tag byte) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: math.MaxUint32},
		SignatureScript:  []byte{0x01, tag},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(wire.NewTxOut(value, script))
	return tx
}

func spendTx(prev chainhash.Hash, index uint32, outs ...*wire.TxOut) *wire.MsgTx {
	tx := wire.NewMsgTx(1)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prev, index), nil, nil))
	for _, out := range outs {
		tx.AddTxOut(out)
	}
	return tx
}

func msgBlock(t *testing.T, ts time.Time, txs ...*wire.MsgTx) *wire.MsgBlock {
	t.Helper()
	block := wire.NewMsgBlock(&wire.BlockHeader{Version: 1, Timestamp: ts, Bits: 0x207fffff})
	for _, tx := range txs {
		require.NoError(t, block.AddTransaction(tx))
	}
	return block
}

func serialize(t *testing.T, block *wire.MsgBlock) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, block.Serialize(&buf))
	return buf.Bytes()
}

func record(magic uint32, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload))
	binary.LittleEndian.PutUint32(out[0:4], magic)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(payload)))
	return append(out, payload...)
}

func writeFile(t *testing.T, dir, name string, key []byte, parts ...[]byte) {
	t.Helper()
	data := bytes.Join(parts, nil)
	for i := range data {
		if len(key) > 0 {
			data[i] ^= key[i%len(key)]
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
}
