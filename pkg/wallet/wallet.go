//go:generate go run github.com/vektra/mockery/v2 --name Verifier

package wallet

import (
	"crypto/ed25519"
	"io"

	"github.com/multiformats/go-multibase"
	"github.com/pkg/errors"
	"github.com/tcfw/ledgerd/pkg/tx"
)

var (
	ErrBadSignature = errors.New("signature does not match sender")
	ErrBadSender    = errors.New("sender is not a valid public key")

	_ Verifier = (*Ed25519Verifier)(nil)
)

// Verifier checks that a transaction was signed by its sender.
type Verifier interface {
	Verify(tx.Tx) error
}

// Ed25519Verifier treats the sender identifier as a multibase encoded
// ed25519 public key.
type Ed25519Verifier struct{}

func (v Ed25519Verifier) Verify(t tx.Tx) error {
	pk, err := DecodeIdentity(t.Sender)
	if err != nil {
		return err
	}

	msg, err := t.SigningData()
	if err != nil {
		return errors.Wrap(err, "building signing data")
	}

	if !ed25519.Verify(pk, msg, t.Signature) {
		return ErrBadSignature
	}

	return nil
}

func EncodeIdentity(pk ed25519.PublicKey) (string, error) {
	return multibase.Encode(multibase.Base58BTC, pk)
}

func DecodeIdentity(id string) (ed25519.PublicKey, error) {
	_, d, err := multibase.Decode(id)
	if err != nil {
		return nil, errors.Wrap(ErrBadSender, err.Error())
	}

	if len(d) != ed25519.PublicKeySize {
		return nil, ErrBadSender
	}

	return ed25519.PublicKey(d), nil
}

type Wallet struct {
	sk ed25519.PrivateKey
	id string
}

func Generate(r io.Reader) (*Wallet, error) {
	_, sk, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, errors.Wrap(err, "generating key")
	}

	return newWallet(sk)
}

func FromSeed(seed []byte) (*Wallet, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.New("invalid seed length")
	}

	return newWallet(ed25519.NewKeyFromSeed(seed))
}

func newWallet(sk ed25519.PrivateKey) (*Wallet, error) {
	id, err := EncodeIdentity(sk.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, errors.Wrap(err, "encoding identity")
	}

	return &Wallet{sk: sk, id: id}, nil
}

// ID is the participant identifier used as tx sender/recipient.
func (w *Wallet) ID() string {
	return w.id
}

func (w *Wallet) Seed() []byte {
	return w.sk.Seed()
}

// Sign returns a copy of t with Sender set to the wallet identity and the
// signature attached.
func (w *Wallet) Sign(t tx.Tx) (tx.Tx, error) {
	t.Sender = w.id

	msg, err := t.SigningData()
	if err != nil {
		return tx.Tx{}, err
	}

	t.Signature = ed25519.Sign(w.sk, msg)

	return t, nil
}

// Transfer builds and signs a transfer from the wallet to recipient.
func (w *Wallet) Transfer(recipient string, amount float64) (tx.Tx, error) {
	return w.Sign(tx.NewTransfer(w.id, recipient, amount))
}
