package ledger

import "github.com/tcfw/ledgerd/pkg/tx"

// BalanceOf replays every transaction in blocks and pending and returns
// received minus sent for participant.
func BalanceOf(blocks []Block, pending []tx.Tx, participant string) float64 {
	var received, sent float64

	tally := func(t tx.Tx) {
		if t.Recipient == participant {
			received += t.Amount
		}
		if !t.IsReward() && t.Sender == participant {
			sent += t.Amount
		}
	}

	for _, b := range blocks {
		for _, t := range b.Transactions {
			tally(t)
		}
	}

	for _, t := range pending {
		tally(t)
	}

	return received - sent
}

// balanceSheet tracks running balances while replaying a chain in order.
type balanceSheet map[string]float64

func newBalanceSheet(blocks []Block) balanceSheet {
	s := balanceSheet{}
	for _, b := range blocks {
		for _, t := range b.Transactions {
			s.apply(t)
		}
	}
	return s
}

func (s balanceSheet) affords(t tx.Tx) bool {
	if t.IsReward() {
		return true
	}
	return t.Amount <= s[t.Sender]
}

func (s balanceSheet) apply(t tx.Tx) {
	if !t.IsReward() {
		s[t.Sender] -= t.Amount
	}
	s[t.Recipient] += t.Amount
}

// Affordable replays pending in order on top of blocks and splits it into the
// transfers each sender can still cover and the ones they cannot. Rewards are
// never affordable as pending entries.
func Affordable(blocks []Block, pending []tx.Tx) (kept, dropped []tx.Tx) {
	s := newBalanceSheet(blocks)

	for _, t := range pending {
		if t.IsReward() || CheckAmount(t.Amount) != nil || !s.affords(t) {
			dropped = append(dropped, t)
			continue
		}
		s.apply(t)
		kept = append(kept, t)
	}

	return kept, dropped
}
