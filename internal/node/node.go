package node

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/ledgerd/internal/gossip"
	"github.com/tcfw/ledgerd/internal/resolver"
	"github.com/tcfw/ledgerd/internal/storage"
	"github.com/tcfw/ledgerd/internal/utils/logging"
	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/mempool"
	"github.com/tcfw/ledgerd/pkg/peers"
	"github.com/tcfw/ledgerd/pkg/tx"
	"github.com/tcfw/ledgerd/pkg/wallet"
)

// Gossip is the peer wire client used by the node.
type Gossip interface {
	BroadcastTransaction(ctx context.Context, peers []string, t tx.Tx) *gossip.Report
	BroadcastBlock(ctx context.Context, peers []string, b ledger.Block) *gossip.Report
	FetchChain(ctx context.Context, peer string) ([]ledger.Block, error)
}

var (
	_ Gossip = (*gossip.Client)(nil)
)

// Node owns the local chain, pool and peer set and coordinates every
// mutation of them.
type Node struct {
	mu     sync.RWMutex
	mineMu sync.Mutex

	ledger    *ledger.Ledger
	pool      *mempool.TxMemPool
	peers     *peers.Registry
	validator *ledger.TxValidator
	resolver  *resolver.Resolver

	verifier wallet.Verifier
	gossip   Gossip
	store    storage.Store

	miner           string
	seedPeers       []string
	resolveInterval time.Duration

	needsResolution int32
	resolveCh       chan struct{}
	mineCancel      context.CancelFunc

	now    func() time.Time
	logger *logrus.Entry
}

func NewNode(ctx context.Context, opts ...NodeOption) (*Node, error) {
	n := &Node{
		ledger:    ledger.New(),
		pool:      mempool.NewTxMemPool(),
		peers:     peers.NewRegistry(),
		resolveCh: make(chan struct{}, 1),
		now:       time.Now,
	}

	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	if n.logger == nil {
		n.logger = logging.Component("node")
	}
	if n.verifier == nil {
		n.verifier = wallet.Ed25519Verifier{}
	}
	if n.gossip == nil {
		n.gossip = gossip.NewClient()
	}
	if n.store == nil {
		n.store = storage.NewMemStore()
	}

	n.validator = ledger.NewTxValidator(n.verifier)

	n.mu.Lock()
	defer n.mu.Unlock()

	n.load(ctx)

	n.resolver = resolver.New(n.gossip, n.ledger, resolver.WithLogger(logging.Component("resolver")))

	added := false
	for _, p := range n.seedPeers {
		if n.peers.Add(p) {
			added = true
		}
	}
	if added {
		n.persist(ctx)
	}

	return n, nil
}

// load restores persisted state. Anything missing, unreadable or invalid
// resets the node to a genesis-only chain with no pool and no peers.
func (n *Node) load(ctx context.Context) {
	//assumes locked n.mu
	err := func() error {
		chain, err := n.store.LoadChain(ctx)
		if err != nil {
			return errors.Wrap(err, "loading chain")
		}

		pool, err := n.store.LoadPool(ctx)
		if err != nil {
			return errors.Wrap(err, "loading pool")
		}

		addrs, err := n.store.LoadPeers(ctx)
		if err != nil {
			return errors.Wrap(err, "loading peers")
		}

		if err := n.ledger.Replace(chain); err != nil {
			return errors.Wrap(err, "validating stored chain")
		}

		n.pool.Load(pool)
		n.peers.Load(addrs)

		return nil
	}()

	if err != nil {
		if errors.Cause(err) == storage.ErrNotFound {
			n.logger.Info("no stored state, starting from genesis")
		} else {
			n.logger.WithError(err).Warn("discarding stored state, starting from genesis")
		}

		n.ledger = ledger.New()
		n.pool.Clear()
		n.peers.Load(nil)
		return
	}

	n.logger.WithField("length", n.ledger.Len()).WithField("pool", n.pool.Len()).Info("restored stored state")
}

// persist writes the full node state. Failures are logged only.
func (n *Node) persist(ctx context.Context) {
	//assumes locked n.mu
	if err := n.store.SaveChain(ctx, n.ledger.Blocks()); err != nil {
		n.logger.WithError(err).Error("saving chain")
	}

	if err := n.store.SavePool(ctx, n.pool.Snapshot()); err != nil {
		n.logger.WithError(err).Error("saving pool")
	}

	if err := n.store.SavePeers(ctx, n.peers.List()); err != nil {
		n.logger.WithError(err).Error("saving peers")
	}
}

func (n *Node) Stop() error {
	n.logger.Warn("Shutting down")

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mineCancel != nil {
		n.mineCancel()
	}

	return n.store.Close()
}

func (n *Node) Miner() string {
	return n.miner
}

// Chain returns a copy of the local chain.
func (n *Node) Chain() []ledger.Block {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.ledger.Blocks()
}

// Pool returns a copy of the pending transactions.
func (n *Node) Pool() []tx.Tx {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return n.pool.Snapshot()
}

// Balance of participant across the chain and the pool. An empty
// participant means the local miner.
func (n *Node) Balance(participant string) (float64, error) {
	if participant == "" {
		participant = n.miner
	}
	if participant == "" {
		return 0, ErrNoMinerIdentity
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	return ledger.BalanceOf(n.ledger.Blocks(), n.pool.Snapshot(), participant), nil
}

type Status struct {
	Length          int    `msgpack:"l" json:"length"`
	Tip             string `msgpack:"t" json:"tip"`
	PoolSize        int    `msgpack:"p" json:"pool_size"`
	Peers           int    `msgpack:"n" json:"peers"`
	Miner           string `msgpack:"m" json:"miner,omitempty"`
	NeedsResolution bool   `msgpack:"r" json:"needs_resolution"`
}

func (n *Node) Status() (*Status, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	tip, err := n.ledger.TipFingerprint()
	if err != nil {
		return nil, errors.Wrap(err, "fingerprinting tip")
	}

	return &Status{
		Length:          n.ledger.Len(),
		Tip:             tip,
		PoolSize:        n.pool.Len(),
		Peers:           n.peers.Len(),
		Miner:           n.miner,
		NeedsResolution: n.NeedsResolution(),
	}, nil
}

func (n *Node) NeedsResolution() bool {
	return atomic.LoadInt32(&n.needsResolution) == 1
}

func (n *Node) markNeedsResolution() {
	atomic.StoreInt32(&n.needsResolution, 1)

	select {
	case n.resolveCh <- struct{}{}:
	default:
	}
}
