package node

import (
	"context"

	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

// Submit validates a locally originated transfer, pools it and gossips it
// to every peer.
func (n *Node) Submit(ctx context.Context, t tx.Tx) (bool, error) {
	ok, err := n.addTransaction(ctx, t)
	if !ok {
		return ok, err
	}

	r := n.gossip.BroadcastTransaction(ctx, n.peers.List(), t)
	if len(r.Rejected) > 0 {
		n.logger.WithField("peers", r.Rejected).Warn("peers rejected transaction")
	}

	return true, nil
}

// ReceiveTransaction pools a transaction gossiped by a peer without
// forwarding it further.
func (n *Node) ReceiveTransaction(ctx context.Context, t tx.Tx) (bool, error) {
	return n.addTransaction(ctx, t)
}

func (n *Node) addTransaction(ctx context.Context, t tx.Tx) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	balance := ledger.BalanceOf(n.ledger.Blocks(), n.pool.Snapshot(), t.Sender)

	ok, err := n.pool.Submit(t, func(t tx.Tx) error {
		return n.validator.IsTxValid(t, balance)
	})
	if err != nil {
		n.logger.WithError(err).WithField("sender", t.Sender).Debug("rejected transaction")
		return false, err
	}

	n.persist(ctx)

	return ok, nil
}
