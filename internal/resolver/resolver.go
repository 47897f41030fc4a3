package resolver

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tcfw/ledgerd/internal/utils/logging"
	"github.com/tcfw/ledgerd/pkg/ledger"
)

// ChainFetcher retrieves a peer's full chain.
type ChainFetcher interface {
	FetchChain(ctx context.Context, peer string) ([]ledger.Block, error)
}

// ChainValidator checks a candidate chain from genesis.
type ChainValidator interface {
	IsValidChain(blocks []ledger.Block) error
}

type Option func(*Resolver)

func WithLogger(l *logrus.Entry) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// Resolver implements longest-valid-chain consensus across peers.
type Resolver struct {
	fetcher   ChainFetcher
	validator ChainValidator
	log       *logrus.Entry
}

func New(f ChainFetcher, v ChainValidator, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:   f,
		validator: v,
		log:       logging.Component("resolver"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the longest valid chain among local and every reachable
// peer. replaced is false when local remains the winner.
func (r *Resolver) Resolve(ctx context.Context, local []ledger.Block, peers []string) (winner []ledger.Block, replaced bool) {
	chains := r.fetchAll(ctx, peers)

	ordered := make([]string, 0, len(chains))
	for p := range chains {
		ordered = append(ordered, p)
	}
	sort.Strings(ordered)

	winner = local

	for _, p := range ordered {
		candidate := chains[p]
		l := r.log.WithField("peer", p).WithField("length", len(candidate))

		if len(candidate) <= len(winner) {
			l.Debug("peer chain not longer")
			continue
		}

		if err := r.validator.IsValidChain(candidate); err != nil {
			l.WithError(err).Warn("peer chain invalid")
			continue
		}

		l.Info("adopting longer peer chain")

		winner = candidate
		replaced = true
	}

	return winner, replaced
}

func (r *Resolver) fetchAll(ctx context.Context, peers []string) map[string][]ledger.Block {
	var wg sync.WaitGroup
	var mu sync.Mutex

	chains := make(map[string][]ledger.Block, len(peers))

	wg.Add(len(peers))

	for _, p := range peers {
		go func(p string) {
			defer wg.Done()

			c, err := r.fetcher.FetchChain(ctx, p)
			if err != nil {
				r.log.WithError(err).WithField("peer", p).Debug("skipping peer")
				return
			}

			mu.Lock()
			defer mu.Unlock()

			chains[p] = c
		}(p)
	}

	wg.Wait()

	return chains
}
