package mempool

import (
	"testing"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/stretchr/testify/assert"
	"github.com/tcfw/ledgerd/pkg/tx"
)

func TestTxFilter(t *testing.T) {
	in := []tx.Tx{txn("a", "b", 1, "1"), txn("a", "b", 2, "2")}

	f := newTxFilter(in)

	assert.True(t, f.Contains(in[0]))
	assert.True(t, f.Contains(in[1].Clone()))
	assert.False(t, f.Contains(txn("a", "b", 3, "3")))
}

func TestTxFilterBloomFalsePositive(t *testing.T) {
	in := []tx.Tx{txn("a", "b", 1, "1")}

	// single bit filter: every key tests positive
	f := &txFilter{bloom: bloom.New(1, 1), txs: in}
	f.bloom.AddString(in[0].Key())

	other := txn("c", "d", 9, "9")
	assert.True(t, f.bloom.TestString(other.Key()))
	assert.False(t, f.Contains(other))
	assert.True(t, f.Contains(in[0]))
}
