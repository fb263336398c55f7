// Package balance keeps running per-address balances derived from resolved transactions.
package balance

import (
	"sort"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// Accumulator holds signed balances keyed by address. Balances may go negative when spends are
// seen before the credits they consume.
type Accumulator struct {
	balances map[string]int64
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{balances: make(map[string]int64)}
}

// Debit subtracts amount from address.
func (a *Accumulator) Debit(address string, amount int64) {
	if !attributable(address) {
		return
	}
	a.balances[address] -= amount
}

// Credit adds amount to address.
func (a *Accumulator) Credit(address string, amount int64) {
	if !attributable(address) {
		return
	}
	a.balances[address] += amount
}

// Balance returns the current balance, zero for unseen addresses.
func (a *Accumulator) Balance(address string) int64 {
	return a.balances[address]
}

// Len returns the number of addresses seen.
func (a *Accumulator) Len() int {
	return len(a.balances)
}

// Snapshot returns all balances sorted by address.
func (a *Accumulator) Snapshot() []model.Balance {
	out := make([]model.Balance, 0, len(a.balances))
	for addr, v := range a.balances {
		out = append(out, model.Balance{Address: addr, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

func attributable(address string) bool {
	return address != "" && address != model.UnknownAddress
}
