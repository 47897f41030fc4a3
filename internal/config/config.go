package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/ledgerd/internal/utils/logging"
)

const (
	Cfg_verbose = "verbose"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose: false,
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("ledgerd")
	viper.AddConfigPath("/etc/ledgerd/")
	viper.AddConfigPath("$HOME/.ledgerd")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("LEDGERD")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logging.Entry().Warn("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	c := &Config{}

	c.api, err = buildAPIConfig()
	if err != nil {
		return nil, errors.Wrap(err, "api config")
	}

	c.p2p, err = buildP2PConfig()
	if err != nil {
		return nil, errors.Wrap(err, "p2p config")
	}

	c.chain, err = buildChainConfig()
	if err != nil {
		return nil, errors.Wrap(err, "chain config")
	}

	c.storage, err = buildStorageConfig()
	if err != nil {
		return nil, errors.Wrap(err, "storage config")
	}

	if viper.GetBool(Cfg_verbose) {
		logging.SetVerbose(true)
		logging.Entry().WithField("level", "debug").Debug("setting log level")
	}

	return c, nil
}

type Config struct {
	api     *API
	p2p     *P2P
	chain   *Chain
	storage *Storage
}

func (c *Config) API() *API {
	return c.api
}

func (c *Config) P2P() *P2P {
	return c.p2p
}

func (c *Config) Chain() *Chain {
	return c.chain
}

func (c *Config) Storage() *Storage {
	return c.storage
}
