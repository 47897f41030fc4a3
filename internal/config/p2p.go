package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/ledgerd/internal/wire"
)

type P2P struct {
	Peers          []string
	RequestTimeout time.Duration
	WireFormat     wire.Format
}

const (
	Cfg_p2p_peers          = "p2p.peers"
	Cfg_p2p_requestTimeout = "p2p.request_timeout"
	Cfg_p2p_wireFormat     = "p2p.wire_format"
)

var (
	p2pDefaults = map[string]interface{}{
		Cfg_p2p_peers:          []string{},
		Cfg_p2p_requestTimeout: 5 * time.Second,
		Cfg_p2p_wireFormat:     string(wire.FormatJSON),
	}
)

func init() {
	for k, v := range p2pDefaults {
		viper.SetDefault(k, v)
	}
}

func buildP2PConfig() (*P2P, error) {
	c := &P2P{}

	c.Peers = viper.GetStringSlice(Cfg_p2p_peers)
	c.RequestTimeout = viper.GetDuration(Cfg_p2p_requestTimeout)

	f, err := wire.ParseFormat(viper.GetString(Cfg_p2p_wireFormat))
	if err != nil {
		return nil, errors.Wrap(err, "wire format")
	}
	c.WireFormat = f

	return c, nil
}
