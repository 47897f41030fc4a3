package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/ledgerd/pkg/tx"
)

func mineNext(t *testing.T, l *Ledger, pending []tx.Tx, miner string) Block {
	t.Helper()

	b, err := l.ForgeNext(context.Background(), pending, miner)
	require.NoError(t, err)

	_, err = l.AddBlock(b)
	require.NoError(t, err)

	return b
}

// buildChain returns a ledger with alice and bob rewarded once each and a
// transfer from alice to carol in block 3.
func buildChain(t *testing.T) *Ledger {
	l := New()

	mineNext(t, l, nil, "alice")
	mineNext(t, l, nil, "bob")
	mineNext(t, l, []tx.Tx{{Sender: "alice", Recipient: "carol", Amount: 4, Signature: []byte("s1")}}, "bob")

	return l
}

func TestGenesis(t *testing.T) {
	l := New()

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, Genesis(), l.Tip())
	assert.NoError(t, l.IsValidChain(l.Blocks()))
}

func TestAddBlockRejectsBadPreviousHash(t *testing.T) {
	l := buildChain(t)
	before := l.Blocks()

	b, err := l.ForgeNext(context.Background(), nil, "alice")
	require.NoError(t, err)

	b.PreviousHash = "ffff"

	_, err = l.AddBlock(b)
	assert.ErrorIs(t, err, ErrPreviousHashMismatch)
	assert.True(t, IsIntegrityViolation(err))
	assert.Equal(t, before, l.Blocks())
}

func TestAddBlockRejectsWrongIndex(t *testing.T) {
	l := buildChain(t)

	b, err := l.ForgeNext(context.Background(), nil, "alice")
	require.NoError(t, err)

	b.Index++

	_, err = l.AddBlock(b)
	assert.ErrorIs(t, err, ErrIndexMismatch)
	assert.Equal(t, 4, l.Len())
}

func TestAddBlockRejectsUnaffordable(t *testing.T) {
	l := buildChain(t)

	b, err := l.ForgeNext(context.Background(), []tx.Tx{{Sender: "carol", Recipient: "dave", Amount: 5}}, "alice")
	require.NoError(t, err)

	_, err = l.AddBlock(b)
	assert.ErrorIs(t, err, ErrUnaffordableTx)
	assert.Equal(t, 4, l.Len())
}

func TestAddBlockRejectsBadReward(t *testing.T) {
	l := buildChain(t)

	b, err := l.ForgeNext(context.Background(), nil, "alice")
	require.NoError(t, err)

	b.Transactions[0].Amount = 1000

	_, err = l.AddBlock(b)
	assert.ErrorIs(t, err, ErrInvalidReward)
}

func TestAddBlockRejectsMissingReward(t *testing.T) {
	l := buildChain(t)

	b, err := l.ForgeNext(context.Background(), nil, "alice")
	require.NoError(t, err)

	b.Transactions = []tx.Tx{}

	_, err = l.AddBlock(b)
	assert.ErrorIs(t, err, ErrInvalidReward)
}

func TestIsValidChainDetectsMutation(t *testing.T) {
	l := buildChain(t)
	valid := l.Blocks()

	require.NoError(t, l.IsValidChain(valid))

	tip := len(valid) - 1

	mutations := map[string]func([]Block){
		"proof of inner block": func(c []Block) { c[1].Proof++ },
		"previous hash":        func(c []Block) { c[2].PreviousHash = "00" },
		"inner tx amount":      func(c []Block) { c[3-1].Transactions[0].Amount = 11 },
		"transfer amount":      func(c []Block) { c[3].Transactions[0].Amount = 40 },
		"tip reward amount":    func(c []Block) { c[tip].Transactions[len(c[tip].Transactions)-1].Amount = 9 },
		"genesis proof":        func(c []Block) { c[0].Proof = 101 },
		"index":                func(c []Block) { c[2].Index = 7 },
		"tip proof": func(c []Block) {
			e := l.ProofEngine()
			for e.IsValidProof(c[tip].Pending(), c[tip].PreviousHash, c[tip].Proof) {
				c[tip].Proof++
			}
		},
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := CloneBlocks(valid)
			mutate(c)
			assert.Error(t, l.IsValidChain(c))
		})
	}
}

func TestIsValidChainEmpty(t *testing.T) {
	assert.ErrorIs(t, New().IsValidChain(nil), ErrEmptyChain)
}

func TestReplaceInvalidKeepsChain(t *testing.T) {
	l := buildChain(t)
	other := New()

	bad := l.Blocks()
	bad[2].PreviousHash = "00"

	assert.Error(t, other.Replace(bad))
	assert.Equal(t, 1, other.Len())

	assert.NoError(t, other.Replace(l.Blocks()))
	assert.Equal(t, l.Blocks(), other.Blocks())
}

func TestBlocksAreCopies(t *testing.T) {
	l := buildChain(t)

	blocks := l.Blocks()
	blocks[3].Transactions[0].Amount = 1000

	assert.Equal(t, float64(4), l.Blocks()[3].Transactions[0].Amount)
}

func TestFingerprintStable(t *testing.T) {
	l := buildChain(t)
	tip := l.Tip()

	f1, err := l.Fingerprint(tip)
	require.NoError(t, err)
	f2, err := l.Fingerprint(tip.Clone())
	require.NoError(t, err)

	assert.Equal(t, f1, f2)

	g := Genesis()
	g.Transactions = nil
	gf, err := l.Fingerprint(g)
	require.NoError(t, err)
	gf2, err := l.Fingerprint(Genesis())
	require.NoError(t, err)

	assert.Equal(t, gf, gf2)
}
