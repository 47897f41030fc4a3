package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

const (
	DriverPebble = "pebble"
	DriverFile   = "file"
	DriverMemory = "memory"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrCorrupt       = errors.New("stored data corrupt")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Store persists a node's chain, pool and peer set between runs.
type Store interface {
	LoadChain(context.Context) ([]ledger.Block, error)
	SaveChain(context.Context, []ledger.Block) error

	LoadPool(context.Context) ([]tx.Tx, error)
	SavePool(context.Context, []tx.Tx) error

	LoadPeers(context.Context) ([]string, error)
	SavePeers(context.Context, []string) error

	Close() error
}

// Open builds the store for driver rooted at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverPebble, "":
		return NewPebbleStore(filepath.Join(path, "ledger"))
	case DriverFile:
		if err := os.MkdirAll(path, 0700); err != nil {
			return nil, errors.Wrap(err, "creating storage dir")
		}
		return NewFileStore(filepath.Join(path, "ledger.yaml")), nil
	case DriverMemory:
		return NewMemStore(), nil
	default:
		return nil, errors.Wrap(ErrUnknownDriver, driver)
	}
}

func encode(v interface{}) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding")
	}
	return b, nil
}

func decode(b []byte, v interface{}) error {
	if err := msgpack.Unmarshal(b, v); err != nil {
		return errors.Wrap(ErrCorrupt, err.Error())
	}
	return nil
}
