package node

import "github.com/pkg/errors"

var (
	ErrNoMinerIdentity  = errors.New("no miner identity configured")
	ErrPendingSignature = errors.New("pending transaction failed signature check")
	ErrStaleTip         = errors.New("chain tip moved while mining")
)
