package ledger

import "github.com/tcfw/ledgerd/pkg/tx"

const genesisProof = 100

// Genesis is the fixed first block every chain starts with.
func Genesis() Block {
	return Block{
		Index:        0,
		PreviousHash: "",
		Transactions: []tx.Tx{},
		Proof:        genesisProof,
		Timestamp:    0,
	}
}
