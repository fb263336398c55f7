// Package bitcoin reads Bitcoin blocks from block files or a node and converts them to ledger
// blocks.
package bitcoin

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/pkg/safe"
)

var nullInput = model.Input{TransactionHash: chainhash.Hash{}.String(), OutputIndex: math.MaxUint32}

// BtcToSatoshis converts a BTC amount reported by the node to satoshis.
func BtcToSatoshis(value float64) (int64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 || amt > btcutil.MaxSatoshi {
		return 0, fmt.Errorf("amount %d out of range", amt)
	}
	return int64(amt), nil
}

// DecodeBlock deserializes raw block bytes and converts them. Malformed bytes yield model.ErrDecode.
func (d *ScriptDecoder) DecodeBlock(raw []byte) (*model.Block, error) {
	var msg wire.MsgBlock
	if err := msg.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDecode, err)
	}
	block := d.ConvertBlock(&msg)
	return &block, nil
}

// ConvertBlock maps a wire block to a ledger block. The height is unknown.
func (d *ScriptDecoder) ConvertBlock(msg *wire.MsgBlock) model.Block {
	block := model.Block{
		Hash:         msg.BlockHash().String(),
		Timestamp:    msg.Header.Timestamp.UTC(),
		Transactions: make([]model.Transaction, 0, len(msg.Transactions)),
	}
	for _, tx := range msg.Transactions {
		block.Transactions = append(block.Transactions, d.convertTx(tx))
	}
	return block
}

func (d *ScriptDecoder) convertTx(tx *wire.MsgTx) model.Transaction {
	out := model.Transaction{
		TxID:     tx.TxHash().String(),
		Coinbase: blockchain.IsCoinBaseTx(tx),
		Inputs:   make([]model.Input, 0, len(tx.TxIn)),
		Outputs:  make([]model.Output, 0, len(tx.TxOut)),
	}
	for _, in := range tx.TxIn {
		out.Inputs = append(out.Inputs, model.Input{
			TransactionHash: in.PreviousOutPoint.Hash.String(),
			OutputIndex:     in.PreviousOutPoint.Index,
		})
	}
	for _, o := range tx.TxOut {
		out.Outputs = append(out.Outputs, model.Output{
			Value:   o.Value,
			Address: d.Address(o.PkScript),
		})
	}
	return out
}

// ConvertVerboseBlock maps a verbose node block to a ledger block.
func (d *ScriptDecoder) ConvertVerboseBlock(src *btcjson.GetBlockVerboseTxResult) (model.Block, error) {
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %s height: %w", src.Hash, err)
	}
	block := model.Block{
		Hash:         src.Hash,
		Height:       height,
		HeightKnown:  true,
		Timestamp:    time.Unix(src.Time, 0).UTC(),
		Transactions: make([]model.Transaction, 0, len(src.Tx)),
	}
	for _, tx := range src.Tx {
		converted, err := d.convertVerboseTx(tx)
		if err != nil {
			return model.Block{}, fmt.Errorf("block %d: %w", src.Height, err)
		}
		block.Transactions = append(block.Transactions, converted)
	}
	return block, nil
}

func (d *ScriptDecoder) convertVerboseTx(tx btcjson.TxRawResult) (model.Transaction, error) {
	out := model.Transaction{
		TxID:     tx.Txid,
		Coinbase: len(tx.Vin) == 1 && tx.Vin[0].IsCoinBase(),
		Inputs:   make([]model.Input, 0, len(tx.Vin)),
		Outputs:  make([]model.Output, 0, len(tx.Vout)),
	}
	for _, in := range tx.Vin {
		if in.IsCoinBase() {
			out.Inputs = append(out.Inputs, nullInput)
			continue
		}
		out.Inputs = append(out.Inputs, model.Input{TransactionHash: in.Txid, OutputIndex: in.Vout})
	}
	for _, vout := range tx.Vout {
		value, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("tx %s output %d: %w", tx.Txid, vout.N, err)
		}
		out.Outputs = append(out.Outputs, model.Output{Value: value, Address: d.VoutAddress(vout)})
	}
	return out, nil
}
