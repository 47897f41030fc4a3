package api

import "github.com/tcfw/ledgerd/pkg/tx"

type BalanceResponse struct {
	Participant string  `msgpack:"p" json:"participant"`
	Balance     float64 `msgpack:"b" json:"balance"`
}

type TransactionsResponse struct {
	Transactions []tx.Tx `msgpack:"x" json:"transactions"`
}

type ResolveResponse struct {
	Replaced bool `msgpack:"r" json:"replaced"`
	Length   int  `msgpack:"l" json:"length"`
}

type PeerRequest struct {
	Address string `msgpack:"a" json:"address"`
}

type PeersResponse struct {
	Peers []string `msgpack:"p" json:"peers"`
}
