package pow

import (
	"context"
	"strings"

	"github.com/tcfw/ledgerd/pkg/hashing"
	"github.com/tcfw/ledgerd/pkg/tx"
)

const (
	// Difficulty is the number of leading '0' hex characters a proof digest
	// must have. Fixed; there is no adjustment.
	Difficulty = 2

	ctxCheckInterval = 1024
)

var (
	defaultEngine = NewEngine(hashing.Default, Difficulty)
)

type Engine struct {
	hasher hashing.Hasher
	prefix string
}

func NewEngine(h hashing.Hasher, difficulty int) *Engine {
	return &Engine{
		hasher: h,
		prefix: strings.Repeat("0", difficulty),
	}
}

type puzzle struct {
	Txs          []tx.Tx `msgpack:"t"`
	PreviousHash string  `msgpack:"p"`
	Proof        uint64  `msgpack:"n"`
}

// IsValidProof reports whether proof solves the puzzle for txs chained
// onto previousHash.
func (e *Engine) IsValidProof(txs []tx.Tx, previousHash string, proof uint64) bool {
	if txs == nil {
		txs = []tx.Tx{}
	}

	d, err := hashing.HexDigest(e.hasher, &puzzle{txs, previousHash, proof})
	if err != nil {
		return false
	}

	return strings.HasPrefix(d, e.prefix)
}

// Solve searches proofs linearly from 0. The search has no upper bound; it
// only stops early if ctx is done.
func (e *Engine) Solve(ctx context.Context, txs []tx.Tx, previousHash string) (uint64, error) {
	var proof uint64

	for !e.IsValidProof(txs, previousHash, proof) {
		proof++

		if proof%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			default:
			}
		}
	}

	return proof, nil
}

func IsValidProof(txs []tx.Tx, previousHash string, proof uint64) bool {
	return defaultEngine.IsValidProof(txs, previousHash, proof)
}

func Solve(ctx context.Context, txs []tx.Tx, previousHash string) (uint64, error) {
	return defaultEngine.Solve(ctx, txs, previousHash)
}
