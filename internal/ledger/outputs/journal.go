package outputs

import "github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"

type spend struct {
	key    model.OutputKey
	output model.RecordedOutput
}

// Journal tracks the mutations of one transaction so they can be rolled back.
type Journal struct {
	ledger   *Ledger
	spends   []spend
	recorded string
}

// Begin starts a journal over the ledger.
func (l *Ledger) Begin() *Journal {
	return &Journal{ledger: l}
}

// Resolve consumes an output and remembers it for Rollback.
func (j *Journal) Resolve(txid string, index uint32) (model.RecordedOutput, bool) {
	out, ok := j.ledger.Resolve(txid, index)
	if ok {
		j.spends = append(j.spends, spend{key: model.OutputKey{TxID: txid, Index: index}, output: out})
	}
	return out, ok
}

// Record stores outputs and remembers the transaction for Rollback.
func (j *Journal) Record(txid string, outputs []model.RecordedOutput) error {
	if err := j.ledger.Record(txid, outputs); err != nil {
		return err
	}
	j.recorded = txid
	return nil
}

// Rollback restores every consumed output and removes recorded outputs, newest first.
func (j *Journal) Rollback() {
	if j.recorded != "" {
		j.ledger.remove(j.recorded)
		j.recorded = ""
	}
	for i := len(j.spends) - 1; i >= 0; i-- {
		s := j.spends[i]
		j.ledger.restore(s.key.TxID, s.key.Index, s.output)
	}
	j.spends = nil
}

// Spent returns the number of outputs consumed through the journal.
func (j *Journal) Spent() int {
	return len(j.spends)
}
