package ledger

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tcfw/ledgerd/pkg/hashing"
	"github.com/tcfw/ledgerd/pkg/pow"
)

type Option func(*Ledger)

func WithHasher(h hashing.Hasher) Option {
	return func(l *Ledger) {
		l.hasher = h
	}
}

func WithProofEngine(e *pow.Engine) Option {
	return func(l *Ledger) {
		l.pow = e
	}
}

// Ledger owns the chain. Every accessor returns copies.
type Ledger struct {
	mu     sync.RWMutex
	blocks []Block

	hasher hashing.Hasher
	pow    *pow.Engine
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		blocks: []Block{Genesis()},
		hasher: hashing.Default,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.pow == nil {
		l.pow = pow.NewEngine(l.hasher, pow.Difficulty)
	}

	return l
}

func (l *Ledger) Fingerprint(b Block) (string, error) {
	return Fingerprint(l.hasher, b)
}

func (l *Ledger) ProofEngine() *pow.Engine {
	return l.pow
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.blocks)
}

func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return CloneBlocks(l.blocks)
}

func (l *Ledger) Tip() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.blocks[len(l.blocks)-1].Clone()
}

func (l *Ledger) TipFingerprint() (string, error) {
	return l.Fingerprint(l.Tip())
}

// AddBlock fully validates a block against the current tip before
// appending it. Locally mined blocks take the same path.
func (l *Ledger) AddBlock(b Block) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b.Index != uint64(len(l.blocks)) {
		return len(l.blocks), errors.Wrapf(ErrIndexMismatch, "expected %d, got %d", len(l.blocks), b.Index)
	}

	prevFp, err := l.Fingerprint(l.blocks[len(l.blocks)-1])
	if err != nil {
		return len(l.blocks), errors.Wrap(err, "fingerprinting tip")
	}

	if err := l.checkBlock(b, prevFp, newBalanceSheet(l.blocks)); err != nil {
		return len(l.blocks), err
	}

	l.blocks = append(l.blocks, b.Clone())

	return len(l.blocks), nil
}

// Replace swaps the whole chain for blocks if they form a valid chain.
func (l *Ledger) Replace(blocks []Block) error {
	if err := l.IsValidChain(blocks); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.blocks = CloneBlocks(blocks)

	return nil
}

// IsValidChain checks a candidate chain from genesis to tip. Any failing
// block invalidates the whole candidate.
func (l *Ledger) IsValidChain(blocks []Block) error {
	if len(blocks) == 0 {
		return ErrEmptyChain
	}

	gFp, err := l.Fingerprint(Genesis())
	if err != nil {
		return errors.Wrap(err, "fingerprinting genesis")
	}

	prevFp, err := l.Fingerprint(blocks[0])
	if err != nil {
		return errors.Wrap(err, "fingerprinting block 0")
	}

	if prevFp != gFp {
		return ErrInvalidGenesis
	}

	sheet := balanceSheet{}

	for i := 1; i < len(blocks); i++ {
		b := blocks[i]

		if b.Index != uint64(i) {
			return errors.Wrapf(ErrIndexMismatch, "block %d claims index %d", i, b.Index)
		}

		if err := l.checkBlock(b, prevFp, sheet); err != nil {
			return errors.Wrapf(err, "block %d", i)
		}

		prevFp, err = l.Fingerprint(b)
		if err != nil {
			return errors.Wrapf(err, "fingerprinting block %d", i)
		}
	}

	return nil
}

// checkBlock validates b as the successor of the block fingerprinted by
// prevFp. sheet holds balances of all earlier transactions and is advanced
// past b's transactions.
func (l *Ledger) checkBlock(b Block, prevFp string, sheet balanceSheet) error {
	if b.PreviousHash != prevFp {
		return ErrPreviousHashMismatch
	}

	if err := checkReward(b); err != nil {
		return err
	}

	if !l.pow.IsValidProof(b.Pending(), b.PreviousHash, b.Proof) {
		return ErrInvalidProof
	}

	for i, t := range b.Transactions {
		if err := CheckAmount(t.Amount); err != nil {
			return errors.Wrapf(err, "tx %d", i)
		}
		if !sheet.affords(t) {
			return errors.Wrapf(ErrUnaffordableTx, "tx %d from %s", i, t.Sender)
		}
		sheet.apply(t)
	}

	return nil
}

// checkReward requires exactly one reward, last, worth MiningReward.
func checkReward(b Block) error {
	n := len(b.Transactions)
	if n == 0 {
		return errors.Wrap(ErrInvalidReward, "missing reward tx")
	}

	for i, t := range b.Transactions {
		if t.IsReward() && i != n-1 {
			return errors.Wrapf(ErrInvalidReward, "reward at position %d", i)
		}
	}

	r := b.Transactions[n-1]
	if !r.IsReward() {
		return errors.Wrap(ErrInvalidReward, "missing reward tx")
	}

	if r.Amount != MiningReward {
		return errors.Wrapf(ErrInvalidReward, "reward of %v", r.Amount)
	}

	return nil
}
