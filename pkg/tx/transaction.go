package tx

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// RewardSender is carried by reward transactions for display and wire
	// compatibility only. Exemption from checks is decided by Kind.
	RewardSender = "MINING"
)

// Kind tags a transaction as an ordinary transfer or a block reward.
type Kind string

const (
	KindTransfer Kind = ""
	KindReward   Kind = "reward"
)

type Tx struct {
	Kind      Kind    `msgpack:"k,omitempty" json:"kind,omitempty"`
	Sender    string  `msgpack:"s" json:"sender"`
	Recipient string  `msgpack:"r" json:"recipient"`
	Signature []byte  `msgpack:"g" json:"signature"`
	Amount    float64 `msgpack:"a" json:"amount"`
}

func NewTransfer(sender, recipient string, amount float64) Tx {
	return Tx{
		Kind:      KindTransfer,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

func NewReward(recipient string, amount float64) Tx {
	return Tx{
		Kind:      KindReward,
		Sender:    RewardSender,
		Recipient: recipient,
		Amount:    amount,
	}
}

func (t Tx) IsReward() bool {
	return t.Kind == KindReward
}

// SigningData is the payload a wallet signs; the signature itself is
// excluded.
func (t Tx) SigningData() ([]byte, error) {
	t.Signature = nil

	b, err := msgpack.Marshal(&t)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling signing data")
	}

	return b, nil
}

// Key identifies a transaction by its (sender, recipient, amount, signature)
// tuple.
func (t Tx) Key() string {
	var sb strings.Builder
	sb.WriteString(t.Sender)
	sb.WriteByte('|')
	sb.WriteString(t.Recipient)
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatFloat(t.Amount, 'g', -1, 64))
	sb.WriteByte('|')
	sb.WriteString(hex.EncodeToString(t.Signature))
	return sb.String()
}

func (t Tx) Matches(o Tx) bool {
	return t.Key() == o.Key()
}

func (t Tx) Clone() Tx {
	if t.Signature != nil {
		sig := make([]byte, len(t.Signature))
		copy(sig, t.Signature)
		t.Signature = sig
	}
	return t
}

func (t *Tx) Marshal() ([]byte, error) {
	b, err := msgpack.Marshal(t)
	if err != nil {
		return nil, errors.Wrap(err, "mashaling tx")
	}

	return b, nil
}

func (t *Tx) Unmarshal(b []byte) error {
	if err := msgpack.Unmarshal(b, t); err != nil {
		return err
	}

	switch t.Kind {
	case KindTransfer, KindReward:
	default:
		return errors.Errorf("unknown tx kind %q", t.Kind)
	}

	return nil
}

// CloneAll returns a deep copy of txs.
func CloneAll(txs []Tx) []Tx {
	if txs == nil {
		return nil
	}

	out := make([]Tx, len(txs))
	for i, t := range txs {
		out[i] = t.Clone()
	}

	return out
}
