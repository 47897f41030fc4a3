package storage

import (
	"context"
	"encoding/base64"
	"io/ioutil"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

var (
	_ Store = (*FileStore)(nil)
)

// fileSnapshot is the on-disk layout. Chain and pool are msgpack encoded
// then base64'd so the file stays readable.
type fileSnapshot struct {
	Chain string   `yaml:"chain,omitempty"`
	Pool  string   `yaml:"pool,omitempty"`
	Peers []string `yaml:"peers"`
}

// FileStore keeps the whole node state in one YAML file, rewritten on
// every save.
type FileStore struct {
	path string

	mu sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) read() (*fileSnapshot, error) {
	d, err := ioutil.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "reading snapshot file")
	}

	snap := &fileSnapshot{}
	if err := yaml.Unmarshal(d, snap); err != nil {
		return nil, errors.Wrap(ErrCorrupt, err.Error())
	}

	return snap, nil
}

func (fs *FileStore) write(snap *fileSnapshot) error {
	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return errors.Wrap(err, "opening snapshot file for write")
	}
	defer f.Close()

	d, err := yaml.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshalling snapshot")
	}

	if err := f.Truncate(0); err != nil {
		return errors.Wrap(err, "truncating snapshot file")
	}

	if _, err := f.Write(d); err != nil {
		return errors.Wrap(err, "writing snapshot file")
	}

	return f.Sync()
}

// update applies fn to the current snapshot, or an empty one when no file
// exists yet, and writes the result back.
func (fs *FileStore) update(fn func(*fileSnapshot) error) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	snap, err := fs.read()
	if err == ErrNotFound {
		snap, err = &fileSnapshot{}, nil
	}
	if err != nil {
		return err
	}

	if err := fn(snap); err != nil {
		return err
	}

	return fs.write(snap)
}

func (fs *FileStore) load(field func(*fileSnapshot) string, v interface{}) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	snap, err := fs.read()
	if err != nil {
		return err
	}

	raw := field(snap)
	if raw == "" {
		return ErrNotFound
	}

	d, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return errors.Wrap(ErrCorrupt, err.Error())
	}

	return decode(d, v)
}

func encodeField(v interface{}) (string, error) {
	d, err := encode(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(d), nil
}

func (fs *FileStore) LoadChain(_ context.Context) ([]ledger.Block, error) {
	blocks := []ledger.Block{}
	if err := fs.load(func(s *fileSnapshot) string { return s.Chain }, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (fs *FileStore) SaveChain(_ context.Context, blocks []ledger.Block) error {
	return fs.update(func(s *fileSnapshot) (err error) {
		s.Chain, err = encodeField(blocks)
		return
	})
}

func (fs *FileStore) LoadPool(_ context.Context) ([]tx.Tx, error) {
	txs := []tx.Tx{}
	if err := fs.load(func(s *fileSnapshot) string { return s.Pool }, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (fs *FileStore) SavePool(_ context.Context, txs []tx.Tx) error {
	if txs == nil {
		txs = []tx.Tx{}
	}

	return fs.update(func(s *fileSnapshot) (err error) {
		s.Pool, err = encodeField(txs)
		return
	})
}

func (fs *FileStore) LoadPeers(_ context.Context) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	snap, err := fs.read()
	if err != nil {
		return nil, err
	}

	if snap.Peers == nil {
		return []string{}, nil
	}

	return snap.Peers, nil
}

func (fs *FileStore) SavePeers(_ context.Context, peers []string) error {
	return fs.update(func(s *fileSnapshot) error {
		s.Peers = append([]string{}, peers...)
		return nil
	})
}
