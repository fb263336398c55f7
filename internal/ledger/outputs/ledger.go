// Package outputs implements the in-memory output ledger used to resolve spends.
package outputs

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// ErrDuplicateTransactionID is returned when a transaction id is recorded a second time.
var ErrDuplicateTransactionID = errors.New("duplicate transaction id")

type slot struct {
	output model.RecordedOutput
	spent  bool
}

type entry struct {
	slots []slot
	live  int
}

// Ledger maps (txid, position) to unspent outputs. An output resolves at most once.
// Every recorded id is remembered for the whole pass, including ids whose outputs are all spent.
// It is not safe for concurrent use; the extraction pass owns it exclusively.
type Ledger struct {
	entries map[string]*entry
	seen    map[string]struct{}
	live    int
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		entries: make(map[string]*entry),
		seen:    make(map[string]struct{}),
	}
}

// Record stores the outputs of txid in position order.
func (l *Ledger) Record(txid string, outputs []model.RecordedOutput) error {
	if l.Recorded(txid) {
		return fmt.Errorf("record %s: %w", txid, ErrDuplicateTransactionID)
	}
	l.seen[txid] = struct{}{}
	if len(outputs) == 0 {
		return nil
	}

	e := &entry{slots: make([]slot, len(outputs)), live: len(outputs)}
	for i, o := range outputs {
		e.slots[i] = slot{output: o}
	}
	l.entries[txid] = e
	l.live += len(outputs)
	return nil
}

// Resolve consumes the output at (txid, index). The second return is false when the output was
// never recorded or has already been consumed.
func (l *Ledger) Resolve(txid string, index uint32) (model.RecordedOutput, bool) {
	e, ok := l.entries[txid]
	if !ok || int64(index) >= int64(len(e.slots)) {
		return model.RecordedOutput{}, false
	}
	s := &e.slots[index]
	if s.spent {
		return model.RecordedOutput{}, false
	}

	s.spent = true
	e.live--
	l.live--
	if e.live == 0 {
		delete(l.entries, txid)
	}
	return s.output, true
}

// Has reports whether txid still has live outputs.
func (l *Ledger) Has(txid string) bool {
	_, ok := l.entries[txid]
	return ok
}

// Recorded reports whether txid was ever recorded, spent or not.
func (l *Ledger) Recorded(txid string) bool {
	_, ok := l.seen[txid]
	return ok
}

// Len returns the number of live outputs.
func (l *Ledger) Len() int {
	return l.live
}

// Transactions returns the number of transactions with at least one live output.
func (l *Ledger) Transactions() int {
	return len(l.entries)
}

// restore undoes a Resolve. Fully consumed transactions are recreated with only the restored
// position live, so the other positions keep resolving as spent.
func (l *Ledger) restore(txid string, index uint32, output model.RecordedOutput) {
	e, ok := l.entries[txid]
	if !ok {
		e = &entry{slots: make([]slot, int(index)+1)}
		for i := range e.slots {
			e.slots[i].spent = true
		}
		l.entries[txid] = e
	}
	if int(index) >= len(e.slots) {
		grown := make([]slot, int(index)+1)
		copy(grown, e.slots)
		for i := len(e.slots); i < len(grown); i++ {
			grown[i].spent = true
		}
		e.slots = grown
	}
	if !e.slots[index].spent {
		return
	}
	e.slots[index] = slot{output: output}
	e.live++
	l.live++
}

// remove drops a transaction recorded in the current attempt.
func (l *Ledger) remove(txid string) {
	delete(l.seen, txid)
	e, ok := l.entries[txid]
	if !ok {
		return
	}
	l.live -= e.live
	delete(l.entries, txid)
}
