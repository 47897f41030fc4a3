package storage

import (
	"context"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

var (
	_ Store = (*PebbleStore)(nil)
)

const (
	cacheSize = 1 << 20 * 16

	tableSep byte = ':'
)

type keyType byte

const (
	blockTPrefix keyType = iota + 1
	chainLenTPrefix
	poolTPrefix
	peersTPrefix
)

// PebbleStore keeps each block under its own key so a chain can be
// iterated in index order.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	c := pebble.NewCache(cacheSize)
	tc := pebble.NewTableCache(c, 16, 100)
	defer tc.Unref()
	defer c.Unref()

	db, err := pebble.Open(path, &pebble.Options{Cache: c, TableCache: tc})
	if err != nil {
		return nil, errors.Wrap(err, "opening pebble store")
	}

	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func (s *PebbleStore) get(key []byte, v interface{}) error {
	d, done, err := s.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return ErrNotFound
		}
		return errors.Wrap(err, "reading key")
	}
	defer done.Close()

	return decode(d, v)
}

func (s *PebbleStore) set(key []byte, v interface{}) error {
	d, err := encode(v)
	if err != nil {
		return err
	}

	return s.db.Set(key, d, pebble.Sync)
}

func (s *PebbleStore) LoadChain(_ context.Context) ([]ledger.Block, error) {
	var n int
	if err := s.get(typedKey(chainLenTPrefix), &n); err != nil {
		return nil, err
	}

	iter := s.db.NewIter(&pebble.IterOptions{
		LowerBound: typedKey(blockTPrefix),
		UpperBound: typedKey(blockTPrefix + 1),
	})
	defer iter.Close()

	blocks := make([]ledger.Block, 0, n)

	for iter.First(); iter.Valid(); iter.Next() {
		b := ledger.Block{}
		if err := decode(iter.Value(), &b); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}

	if len(blocks) != n {
		return nil, errors.Wrapf(ErrCorrupt, "expected %d blocks, found %d", n, len(blocks))
	}

	return blocks, nil
}

func (s *PebbleStore) SaveChain(_ context.Context, blocks []ledger.Block) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.DeleteRange(typedKey(blockTPrefix), typedKey(blockTPrefix+1), nil); err != nil {
		return errors.Wrap(err, "clearing blocks")
	}

	for _, b := range blocks {
		d, err := encode(&b)
		if err != nil {
			return err
		}

		if err := batch.Set(blockKey(b.Index), d, nil); err != nil {
			return errors.Wrap(err, "writing block")
		}
	}

	n, err := encode(len(blocks))
	if err != nil {
		return err
	}

	if err := batch.Set(typedKey(chainLenTPrefix), n, nil); err != nil {
		return errors.Wrap(err, "writing chain length")
	}

	return batch.Commit(pebble.Sync)
}

func (s *PebbleStore) LoadPool(_ context.Context) ([]tx.Tx, error) {
	txs := []tx.Tx{}
	if err := s.get(typedKey(poolTPrefix), &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *PebbleStore) SavePool(_ context.Context, txs []tx.Tx) error {
	return s.set(typedKey(poolTPrefix), txs)
}

func (s *PebbleStore) LoadPeers(_ context.Context) ([]string, error) {
	peers := []string{}
	if err := s.get(typedKey(peersTPrefix), &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

func (s *PebbleStore) SavePeers(_ context.Context, peers []string) error {
	return s.set(typedKey(peersTPrefix), peers)
}

// blockKey zero pads the index so lexical key order matches chain order.
func blockKey(i uint64) []byte {
	return typedKey(blockTPrefix, fmt.Sprintf("%020d", i))
}

func typedKey(kType keyType, parts ...string) []byte {
	n := 1
	for _, p := range parts {
		n += len(p) + 1
	}

	k := make([]byte, 0, n)
	k = append(k, byte(kType))
	for i, p := range parts {
		if i > 0 {
			k = append(k, tableSep)
		}
		k = append(k, []byte(p)...)
	}

	return k
}
