package node

import (
	"context"

	"github.com/tcfw/ledgerd/pkg/ledger"
)

// BlockOutcome classifies a block received from a peer.
type BlockOutcome int

const (
	// BlockRejected blocks failed validation against the local tip.
	BlockRejected BlockOutcome = iota
	// BlockAppended blocks extended the local chain.
	BlockAppended
	// BlockStale blocks are behind the local chain; the sender should resolve.
	BlockStale
	// BlockAhead blocks are beyond the local tip; this node should resolve.
	BlockAhead
)

func (o BlockOutcome) String() string {
	switch o {
	case BlockAppended:
		return "appended"
	case BlockStale:
		return "stale"
	case BlockAhead:
		return "ahead"
	default:
		return "rejected"
	}
}

// ReceiveBlock handles a block announced by a peer.
func (n *Node) ReceiveBlock(ctx context.Context, b ledger.Block) (BlockOutcome, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	l := n.logger.WithField("index", b.Index)
	length := uint64(n.ledger.Len())

	switch {
	case b.Index < length:
		l.Debug("received block behind local chain")
		return BlockStale, nil
	case b.Index > length:
		l.WithField("length", length).Info("received block ahead of local chain, resolution needed")
		n.markNeedsResolution()
		return BlockAhead, nil
	}

	for _, t := range b.Pending() {
		if err := n.validator.VerifySignature(t); err != nil {
			l.WithError(err).Warn("rejected block with bad transfer signature")
			return BlockRejected, err
		}
	}

	if _, err := n.ledger.AddBlock(b); err != nil {
		l.WithError(err).Warn("rejected block")
		return BlockRejected, err
	}

	if n.mineCancel != nil {
		n.mineCancel()
	}

	n.pool.RemoveMatching(b.Pending())
	if dropped := n.pruneUnaffordable(); dropped > 0 {
		l.WithField("dropped", dropped).Info("dropped pooled transfers the new block made unaffordable")
	}
	n.persist(ctx)

	l.Info("appended peer block")

	return BlockAppended, nil
}

// pruneUnaffordable drops pooled transfers the current chain no longer
// covers. Callers hold mu.
func (n *Node) pruneUnaffordable() int {
	_, dropped := ledger.Affordable(n.ledger.Blocks(), n.pool.Snapshot())
	return n.pool.RemoveMatching(dropped)
}
