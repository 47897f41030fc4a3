package mempool

import (
	"sync"

	"github.com/tcfw/ledgerd/pkg/tx"
)

type MemPool interface {
	Submit(tx.Tx, func(tx.Tx) error) (bool, error)
	Snapshot() []tx.Tx
	RemoveMatching([]tx.Tx) int
	Clear()
	Len() int
}

var (
	_ MemPool = (*TxMemPool)(nil)
)

// TxMemPool holds accepted but unmined transactions in arrival order.
type TxMemPool struct {
	plist []tx.Tx
	mu    sync.Mutex
}

func NewTxMemPool() *TxMemPool {
	return &TxMemPool{
		plist: make([]tx.Tx, 0),
	}
}

func (m *TxMemPool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.plist)
}

// Submit stores t if validate accepts it. A transaction already in the
// pool is reported as accepted without being stored twice.
func (m *TxMemPool) Submit(t tx.Tx, validate func(tx.Tx) error) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(t) >= 0 {
		return true, nil
	}

	if validate != nil {
		if err := validate(t); err != nil {
			return false, err
		}
	}

	m.plist = append(m.plist, t.Clone())

	return true, nil
}

func (m *TxMemPool) Contains(t tx.Tx) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.indexOf(t) >= 0
}

func (m *TxMemPool) indexOf(t tx.Tx) int {
	//assumes locked m.mu
	for i, p := range m.plist {
		if p.Matches(t) {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy that stays valid regardless of later pool changes.
func (m *TxMemPool) Snapshot() []tx.Tx {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := tx.CloneAll(m.plist)
	if out == nil {
		out = []tx.Tx{}
	}
	return out
}

// RemoveMatching drops every pooled entry whose tuple matches one of txs and
// returns how many were dropped.
func (m *TxMemPool) RemoveMatching(txs []tx.Tx) int {
	if len(txs) == 0 {
		return 0
	}

	f := newTxFilter(txs)

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.plist[:0]
	removed := 0

	for _, p := range m.plist {
		if f.Contains(p) {
			removed++
			continue
		}
		kept = append(kept, p)
	}

	m.plist = kept

	return removed
}

func (m *TxMemPool) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plist = make([]tx.Tx, 0)
}

// Load replaces the pool contents without validation, e.g. from a snapshot.
func (m *TxMemPool) Load(txs []tx.Tx) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plist = tx.CloneAll(txs)
	if m.plist == nil {
		m.plist = make([]tx.Tx, 0)
	}
}
