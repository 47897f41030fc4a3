package ledger

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tcfw/ledgerd/pkg/tx"
	"github.com/tcfw/ledgerd/pkg/wallet/mocks"
)

func TestTxValidator(t *testing.T) {
	good := tx.Tx{Sender: "alice", Recipient: "bob", Amount: 5, Signature: []byte("ok")}
	forged := tx.Tx{Sender: "alice", Recipient: "bob", Amount: 5, Signature: []byte("bad")}

	v := mocks.NewVerifier(t)
	v.On("Verify", good).Return(nil)
	v.On("Verify", forged).Return(errors.New("nope"))

	val := NewTxValidator(v)

	assert.NoError(t, val.IsTxValid(good, 10))
	assert.NoError(t, val.IsTxValid(good, 5))

	err := val.IsTxValid(forged, 10)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.True(t, IsValidationRejected(err))

	err = val.IsTxValid(good, 4.99)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, IsValidationRejected(err))
}

func TestTxValidatorRejectsBeforeVerifying(t *testing.T) {
	v := mocks.NewVerifier(t)
	val := NewTxValidator(v)

	assert.ErrorIs(t, val.IsTxValid(tx.NewReward("me", 10), 0), ErrRewardNotAllowed)
	assert.ErrorIs(t, val.IsTxValid(tx.Tx{Sender: "a", Amount: -1}, 10), ErrInvalidAmount)
	assert.ErrorIs(t, val.IsTxValid(tx.Tx{Sender: "a", Amount: math.NaN()}, 10), ErrInvalidAmount)
	assert.ErrorIs(t, val.IsTxValid(tx.Tx{Sender: "a", Amount: 11}, 10), ErrInsufficientBalance)

	v.AssertNotCalled(t, "Verify", mock.Anything)
}
