package ledger

import (
	"github.com/tcfw/ledgerd/pkg/hashing"
	"github.com/tcfw/ledgerd/pkg/tx"
)

const (
	// MiningReward is credited to the miner of every block.
	MiningReward = 10.0
)

type Block struct {
	Index        uint64  `msgpack:"i" json:"index"`
	PreviousHash string  `msgpack:"p" json:"previous_hash"`
	Transactions []tx.Tx `msgpack:"x" json:"transactions"`
	Proof        uint64  `msgpack:"n" json:"proof"`
	Timestamp    int64   `msgpack:"t" json:"timestamp"`
}

func (b Block) Clone() Block {
	b.Transactions = tx.CloneAll(b.Transactions)
	if b.Transactions == nil {
		b.Transactions = []tx.Tx{}
	}
	return b
}

// Pending returns the transactions covered by the block proof, i.e. all but
// a trailing reward.
func (b Block) Pending() []tx.Tx {
	n := len(b.Transactions)
	if n > 0 && b.Transactions[n-1].IsReward() {
		return b.Transactions[:n-1]
	}
	return b.Transactions
}

// Fingerprint digests every field of b. Nil and empty transaction lists
// fingerprint identically.
func Fingerprint(h hashing.Hasher, b Block) (string, error) {
	if b.Transactions == nil {
		b.Transactions = []tx.Tx{}
	}

	return hashing.HexDigest(h, &b)
}

func CloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}
	return out
}
