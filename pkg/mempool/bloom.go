package mempool

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/tcfw/ledgerd/pkg/tx"
)

const (
	falsePositive = 0.01
)

// txFilter answers membership of a tx tuple in a fixed set. The bloom
// filter rules out most non-members before the linear compare.
type txFilter struct {
	bloom *bloom.BloomFilter
	txs   []tx.Tx
}

func newTxFilter(txs []tx.Tx) *txFilter {
	f := &txFilter{
		bloom: bloom.NewWithEstimates(uint(len(txs)), falsePositive),
		txs:   txs,
	}

	for _, t := range txs {
		f.bloom.AddString(t.Key())
	}

	return f
}

func (f *txFilter) Contains(t tx.Tx) bool {
	if !f.bloom.TestString(t.Key()) {
		return false
	}

	for _, x := range f.txs {
		if x.Matches(t) {
			return true
		}
	}

	return false
}
