package config

import (
	"github.com/spf13/viper"
)

type API struct {
	Listen string
}

const (
	Cfg_api_listen = "api.listen"
)

var (
	apiDefaults = map[string]interface{}{
		Cfg_api_listen: ":5000",
	}
)

func init() {
	for k, v := range apiDefaults {
		viper.SetDefault(k, v)
	}
}

func buildAPIConfig() (*API, error) {
	return &API{
		Listen: viper.GetString(Cfg_api_listen),
	}, nil
}
