package bitcoin

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ScriptDecoder extracts the owning address of an output script.
type ScriptDecoder struct {
	params *chaincfg.Params
}

// NewScriptDecoder initializes a decoder for the given chain parameters.
func NewScriptDecoder(params *chaincfg.Params) *ScriptDecoder {
	return &ScriptDecoder{params: params}
}

// Address returns the first address of pkScript, or "" when the script has none or cannot be
// parsed. Pay-to-pubkey scripts resolve to their pay-to-pubkey-hash address.
func (d *ScriptDecoder) Address(pkScript []byte) string {
	if len(pkScript) == 0 {
		return ""
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, d.params)
	if err != nil || len(addrs) == 0 {
		return ""
	}
	return addrs[0].EncodeAddress()
}

// VoutAddress returns the first address reported by the node for vout, falling back to decoding
// the script hex.
func (d *ScriptDecoder) VoutAddress(vout btcjson.Vout) string {
	if vout.ScriptPubKey.Address != "" {
		return vout.ScriptPubKey.Address
	}
	if len(vout.ScriptPubKey.Addresses) > 0 {
		return vout.ScriptPubKey.Addresses[0]
	}
	if vout.ScriptPubKey.Hex == "" {
		return ""
	}
	script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
	if err != nil {
		return ""
	}
	return d.Address(script)
}
