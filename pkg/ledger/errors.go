package ledger

import "github.com/pkg/errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidSignature    = errors.New("invalid tx signature")
	ErrInvalidAmount       = errors.New("amount must be a non-negative number")
	ErrRewardNotAllowed    = errors.New("reward tx cannot be submitted")

	ErrEmptyChain           = errors.New("chain has no blocks")
	ErrInvalidGenesis       = errors.New("genesis block mismatch")
	ErrIndexMismatch        = errors.New("block index mismatch")
	ErrPreviousHashMismatch = errors.New("previous hash mismatch")
	ErrInvalidProof         = errors.New("invalid proof of work")
	ErrInvalidReward        = errors.New("invalid block reward")
	ErrUnaffordableTx       = errors.New("block contains unaffordable tx")
)

var (
	validationErrs = []error{
		ErrInsufficientBalance,
		ErrInvalidSignature,
		ErrInvalidAmount,
		ErrRewardNotAllowed,
	}

	integrityErrs = []error{
		ErrEmptyChain,
		ErrInvalidGenesis,
		ErrIndexMismatch,
		ErrPreviousHashMismatch,
		ErrInvalidProof,
		ErrInvalidReward,
		ErrUnaffordableTx,
	}
)

// IsValidationRejected reports whether err rejected a single transaction.
func IsValidationRejected(err error) bool {
	return isAny(err, validationErrs)
}

// IsIntegrityViolation reports whether err rejected a block or chain.
func IsIntegrityViolation(err error) bool {
	return isAny(err, integrityErrs)
}

func isAny(err error, targets []error) bool {
	if err == nil {
		return false
	}

	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}

	return false
}
