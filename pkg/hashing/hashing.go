package hashing

import (
	"encoding/hex"

	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Hasher produces the raw digest used to fingerprint blocks and check proofs.
// Implementations must be deterministic across processes.
type Hasher interface {
	Sum(data []byte) ([]byte, error)
}

var (
	_ Hasher = (*MultihashHasher)(nil)

	Default Hasher = NewMultihashHasher(multihash.SHA2_256)
)

type MultihashHasher struct {
	code uint64
}

func NewMultihashHasher(code uint64) *MultihashHasher {
	return &MultihashHasher{code: code}
}

func (h *MultihashHasher) Sum(data []byte) ([]byte, error) {
	mh, err := multihash.Sum(data, h.code, multihash.DefaultLengths[h.code])
	if err != nil {
		return nil, errors.Wrap(err, "summing data")
	}

	dmh, err := multihash.Decode(mh)
	if err != nil {
		return nil, errors.Wrap(err, "decoding multihash")
	}

	return dmh.Digest, nil
}

// Encode is the canonical encoding fed to a Hasher. Struct fields are
// written in declaration order so the output is stable.
func Encode(v interface{}) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding value")
	}

	return b, nil
}

// HexDigest encodes v and returns the lowercase hex digest from h.
func HexDigest(h Hasher, v interface{}) (string, error) {
	b, err := Encode(v)
	if err != nil {
		return "", err
	}

	d, err := h.Sum(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(d), nil
}
