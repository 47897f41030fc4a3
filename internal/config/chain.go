package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/ledgerd/pkg/wallet"
)

type Chain struct {
	// Miner is the participant credited with mining rewards. Empty disables
	// mining.
	Miner           string
	ResolveInterval time.Duration
}

const (
	Cfg_chain_miner           = "chain.miner"
	Cfg_chain_resolveInterval = "chain.resolve_interval"
)

var (
	chainDefaults = map[string]interface{}{
		Cfg_chain_miner:           "",
		Cfg_chain_resolveInterval: time.Duration(0),
	}
)

func init() {
	for k, v := range chainDefaults {
		viper.SetDefault(k, v)
	}
}

func buildChainConfig() (*Chain, error) {
	c := &Chain{}

	c.Miner = viper.GetString(Cfg_chain_miner)
	c.ResolveInterval = viper.GetDuration(Cfg_chain_resolveInterval)

	if c.Miner != "" {
		if _, err := wallet.DecodeIdentity(c.Miner); err != nil {
			return nil, errors.Wrap(err, "decoding miner identity")
		}
	}

	return c, nil
}
