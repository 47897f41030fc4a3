package node

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/ledgerd/internal/config"
	"github.com/tcfw/ledgerd/internal/gossip"
	"github.com/tcfw/ledgerd/internal/storage"
	"github.com/tcfw/ledgerd/pkg/wallet"
)

type NodeOption func(*Node) error

func WithStore(s storage.Store) NodeOption {
	return func(n *Node) error {
		n.store = s
		return nil
	}
}

func WithLogger(l *logrus.Entry) NodeOption {
	return func(n *Node) error {
		n.logger = l
		return nil
	}
}

func WithVerifier(v wallet.Verifier) NodeOption {
	return func(n *Node) error {
		n.verifier = v
		return nil
	}
}

func WithGossip(g Gossip) NodeOption {
	return func(n *Node) error {
		n.gossip = g
		return nil
	}
}

// WithMiner sets the participant credited with mining rewards.
func WithMiner(id string) NodeOption {
	return func(n *Node) error {
		n.miner = id
		return nil
	}
}

// WithPeers seeds the peer registry on top of any persisted peers.
func WithPeers(addrs ...string) NodeOption {
	return func(n *Node) error {
		n.seedPeers = append(n.seedPeers, addrs...)
		return nil
	}
}

func WithResolveInterval(d time.Duration) NodeOption {
	return func(n *Node) error {
		n.resolveInterval = d
		return nil
	}
}

func WithClock(now func() time.Time) NodeOption {
	return func(n *Node) error {
		n.now = now
		return nil
	}
}

// WithConfig wires the node from the loaded daemon config.
func WithConfig(cfg *config.Config) NodeOption {
	return func(n *Node) error {
		s, err := storage.Open(cfg.Storage().Driver, cfg.Storage().Path)
		if err != nil {
			return errors.Wrap(err, "initing storage")
		}
		n.store = s

		n.gossip = gossip.NewClient(
			gossip.WithTimeout(cfg.P2P().RequestTimeout),
			gossip.WithFormat(cfg.P2P().WireFormat),
		)

		n.miner = cfg.Chain().Miner
		n.resolveInterval = cfg.Chain().ResolveInterval
		n.seedPeers = append(n.seedPeers, cfg.P2P().Peers...)

		return nil
	}
}
