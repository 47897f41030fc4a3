package node

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

// Mine forges a block from the current pool, appends it and announces it
// to peers. Only one mining attempt runs at a time.
func (n *Node) Mine(ctx context.Context) (*ledger.Block, error) {
	if n.miner == "" {
		return nil, ErrNoMinerIdentity
	}

	n.mineMu.Lock()
	defer n.mineMu.Unlock()

	mctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n.mu.Lock()
	if dropped := n.pruneUnaffordable(); dropped > 0 {
		n.logger.WithField("dropped", dropped).Warn("dropped unaffordable pooled transfers before mining")
		n.persist(ctx)
	}
	pending := n.pool.Snapshot()
	index := uint64(n.ledger.Len())
	tip, err := n.ledger.TipFingerprint()
	n.mineCancel = cancel
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		n.mineCancel = nil
		n.mu.Unlock()
	}()

	if err != nil {
		return nil, errors.Wrap(err, "fingerprinting tip")
	}

	for _, t := range pending {
		if err := n.validator.VerifySignature(t); err != nil {
			n.logger.WithError(err).WithField("sender", t.Sender).Warn("pending transaction has bad signature")
			return nil, errors.Wrap(ErrPendingSignature, err.Error())
		}
	}

	l := n.logger.WithField("index", index).WithField("txs", len(pending))
	l.Debug("mining block")

	b, err := n.ledger.Forge(mctx, ledger.BlockCreationParams{
		Index:        index,
		PreviousHash: tip,
		Pending:      pending,
		Miner:        n.miner,
		Timestamp:    n.now().Unix(),
	})
	if err != nil {
		if mctx.Err() != nil && ctx.Err() == nil {
			return nil, ErrStaleTip
		}
		return nil, err
	}

	if err := n.appendMined(ctx, b, tip, pending); err != nil {
		return nil, err
	}

	l.WithField("proof", b.Proof).Info("mined block")

	r := n.gossip.BroadcastBlock(ctx, n.peers.List(), b)
	if r.Conflict() {
		l.WithField("peers", r.Conflicts).Warn("peers have a longer chain, resolution needed")
		n.markNeedsResolution()
	}

	return &b, nil
}

func (n *Node) appendMined(ctx context.Context, b ledger.Block, tip string, pending []tx.Tx) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	current, err := n.ledger.TipFingerprint()
	if err != nil {
		return errors.Wrap(err, "fingerprinting tip")
	}

	if current != tip || uint64(n.ledger.Len()) != b.Index {
		n.logger.WithField("index", b.Index).Info("discarding block mined on stale tip")
		return ErrStaleTip
	}

	if _, err := n.ledger.AddBlock(b); err != nil {
		n.logger.WithError(err).WithField("index", b.Index).Error("mined block failed validation")
		return errors.Wrap(err, "appending mined block")
	}

	n.pool.RemoveMatching(pending)
	n.persist(ctx)

	return nil
}
