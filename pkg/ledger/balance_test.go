package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tcfw/ledgerd/pkg/tx"
)

func TestBalanceOfMatchesDirectSum(t *testing.T) {
	l := buildChain(t)

	pending := []tx.Tx{
		{Sender: "bob", Recipient: "alice", Amount: 2.5},
		{Sender: "carol", Recipient: "bob", Amount: 1},
	}

	blocks := l.Blocks()

	for _, p := range []string{"alice", "bob", "carol", "dave"} {
		var in, out float64
		for _, b := range blocks {
			for _, x := range b.Transactions {
				if x.Recipient == p {
					in += x.Amount
				}
				if !x.IsReward() && x.Sender == p {
					out += x.Amount
				}
			}
		}
		for _, x := range pending {
			if x.Recipient == p {
				in += x.Amount
			}
			if x.Sender == p {
				out += x.Amount
			}
		}

		assert.Equal(t, in-out, BalanceOf(blocks, pending, p), p)
	}

	assert.Equal(t, float64(10-4+2.5), BalanceOf(blocks, pending, "alice"))
	assert.Equal(t, float64(20-2.5+1), BalanceOf(blocks, pending, "bob"))
}

func TestRewardSenderNeverDebited(t *testing.T) {
	blocks := []Block{{Transactions: []tx.Tx{tx.NewReward("miner", MiningReward)}}}

	assert.Equal(t, float64(0), BalanceOf(blocks, nil, tx.RewardSender))
	assert.Equal(t, MiningReward, BalanceOf(blocks, nil, "miner"))
}

func TestAffordableReplaysInOrder(t *testing.T) {
	l := buildChain(t)

	// alice holds 6, bob holds 20
	pending := []tx.Tx{
		{Sender: "alice", Recipient: "dave", Amount: 5},
		{Sender: "alice", Recipient: "dave", Amount: 2},
		{Sender: "bob", Recipient: "alice", Amount: 3},
		{Sender: "alice", Recipient: "dave", Amount: 4},
		{Sender: "carol", Recipient: "dave", Amount: 5},
		{Sender: "dave", Recipient: "carol", Amount: 100},
	}

	kept, dropped := Affordable(l.Blocks(), pending)

	assert.Equal(t, []tx.Tx{pending[0], pending[2], pending[3]}, kept)
	assert.Equal(t, []tx.Tx{pending[1], pending[4], pending[5]}, dropped)
}
