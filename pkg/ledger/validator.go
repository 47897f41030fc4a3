package ledger

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tcfw/ledgerd/pkg/tx"
	"github.com/tcfw/ledgerd/pkg/wallet"
)

type Validator interface {
	IsTxValid(t tx.Tx, balance float64) error
}

var (
	_ Validator = (*TxValidator)(nil)
)

// TxValidator admits transfers the sender can afford and that the wallet
// verifier accepts. Signature math is left to the verifier.
type TxValidator struct {
	v wallet.Verifier
}

func NewTxValidator(v wallet.Verifier) *TxValidator {
	return &TxValidator{v}
}

func (v *TxValidator) IsTxValid(t tx.Tx, balance float64) error {
	switch t.Kind {
	case tx.KindReward:
		return ErrRewardNotAllowed
	case tx.KindTransfer:
		return v.isTransferValid(t, balance)
	default:
		return errors.Errorf("unknown tx kind %q", t.Kind)
	}
}

func (v *TxValidator) isTransferValid(t tx.Tx, balance float64) error {
	if err := CheckAmount(t.Amount); err != nil {
		return err
	}

	if t.Amount > balance {
		return errors.Wrapf(ErrInsufficientBalance, "has %v, needs %v", balance, t.Amount)
	}

	if err := v.VerifySignature(t); err != nil {
		return err
	}

	return nil
}

// VerifySignature delegates to the wallet verifier.
func (v *TxValidator) VerifySignature(t tx.Tx) error {
	if t.IsReward() {
		return nil
	}

	if err := v.v.Verify(t); err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}

	return nil
}

func CheckAmount(a float64) error {
	if math.IsNaN(a) || math.IsInf(a, 0) || a < 0 {
		return ErrInvalidAmount
	}
	return nil
}
