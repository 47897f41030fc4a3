package storage

import (
	"context"
	"sync"

	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

var (
	_ Store = (*MemStore)(nil)
)

type MemStore struct {
	chain []ledger.Block
	pool  []tx.Tx
	peers []string

	hasChain, hasPool, hasPeers bool

	mu sync.Mutex
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Close() error {
	return nil
}

func (m *MemStore) LoadChain(_ context.Context) ([]ledger.Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasChain {
		return nil, ErrNotFound
	}

	return ledger.CloneBlocks(m.chain), nil
}

func (m *MemStore) SaveChain(_ context.Context, blocks []ledger.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chain = ledger.CloneBlocks(blocks)
	m.hasChain = true

	return nil
}

func (m *MemStore) LoadPool(_ context.Context) ([]tx.Tx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasPool {
		return nil, ErrNotFound
	}

	out := tx.CloneAll(m.pool)
	if out == nil {
		out = []tx.Tx{}
	}

	return out, nil
}

func (m *MemStore) SavePool(_ context.Context, txs []tx.Tx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pool = tx.CloneAll(txs)
	m.hasPool = true

	return nil
}

func (m *MemStore) LoadPeers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasPeers {
		return nil, ErrNotFound
	}

	return append([]string{}, m.peers...), nil
}

func (m *MemStore) SavePeers(_ context.Context, peers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.peers = append([]string{}, peers...)
	m.hasPeers = true

	return nil
}
