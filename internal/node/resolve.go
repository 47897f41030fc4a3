package node

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
)

// Resolve adopts the longest valid chain known to any peer. The pool is
// cleared whenever the local chain is replaced.
func (n *Node) Resolve(ctx context.Context) (bool, error) {
	atomic.StoreInt32(&n.needsResolution, 0)

	local := n.Chain()

	winner, replaced := n.resolver.Resolve(ctx, local, n.peers.List())
	if !replaced {
		return false, nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if len(winner) <= n.ledger.Len() {
		n.logger.Debug("local chain grew during resolution, keeping it")
		return false, nil
	}

	if err := n.ledger.Replace(winner); err != nil {
		return false, errors.Wrap(err, "replacing chain")
	}

	n.pool.Clear()

	if n.mineCancel != nil {
		n.mineCancel()
	}

	n.persist(ctx)

	n.logger.WithField("length", len(winner)).Info("replaced local chain")

	return true, nil
}

// RunResolveLoop periodically resolves against peers, and immediately
// whenever the node is flagged as needing resolution. It returns when ctx
// is done or the resolve interval is disabled.
func (n *Node) RunResolveLoop(ctx context.Context) {
	if n.resolveInterval <= 0 {
		return
	}

	b := &backoff.Backoff{
		Min:    n.resolveInterval,
		Max:    10 * n.resolveInterval,
		Factor: 2,
		Jitter: true,
	}

	timer := time.NewTimer(n.resolveInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-n.resolveCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		next := n.resolveInterval

		if _, err := n.Resolve(ctx); err != nil {
			next = b.Duration()
			n.logger.WithError(err).WithField("retry", next).Warn("resolving chain")
		} else {
			b.Reset()
		}

		timer.Reset(next)
	}
}
