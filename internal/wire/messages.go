package wire

import (
	"github.com/tcfw/ledgerd/pkg/ledger"
)

const (
	PathBroadcastTransaction = "/broadcast-transaction"
	PathBroadcastBlock       = "/broadcast-block"
	PathChain                = "/chain"
)

// BlockMessage wraps a block announced to peers.
type BlockMessage struct {
	Block ledger.Block `msgpack:"b" json:"block"`
}

// Chain is the full chain as served to peers.
type Chain struct {
	Blocks []ledger.Block `msgpack:"c" json:"chain"`
	Length int            `msgpack:"l" json:"length"`
}

func NewChain(blocks []ledger.Block) *Chain {
	return &Chain{Blocks: blocks, Length: len(blocks)}
}
