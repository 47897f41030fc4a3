package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/ledgerd/pkg/tx"
)

type BlockCreationParams struct {
	Index        uint64
	PreviousHash string
	Pending      []tx.Tx
	Miner        string
	Timestamp    int64
}

// Forge solves the proof for params.Pending and returns the block with the
// miner reward appended. It does not touch the chain.
func (l *Ledger) Forge(ctx context.Context, params BlockCreationParams) (Block, error) {
	pending := tx.CloneAll(params.Pending)
	if pending == nil {
		pending = []tx.Tx{}
	}

	proof, err := l.pow.Solve(ctx, pending, params.PreviousHash)
	if err != nil {
		return Block{}, errors.Wrap(err, "solving proof")
	}

	ts := params.Timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}

	txs := make([]tx.Tx, 0, len(pending)+1)
	txs = append(txs, pending...)
	txs = append(txs, tx.NewReward(params.Miner, MiningReward))

	return Block{
		Index:        params.Index,
		PreviousHash: params.PreviousHash,
		Transactions: txs,
		Proof:        proof,
		Timestamp:    ts,
	}, nil
}

// ForgeNext forges a block on top of the current tip.
func (l *Ledger) ForgeNext(ctx context.Context, pending []tx.Tx, miner string) (Block, error) {
	tip := l.Tip()

	fp, err := l.Fingerprint(tip)
	if err != nil {
		return Block{}, errors.Wrap(err, "fingerprinting tip")
	}

	return l.Forge(ctx, BlockCreationParams{
		Index:        tip.Index + 1,
		PreviousHash: fp,
		Pending:      pending,
		Miner:        miner,
	})
}
