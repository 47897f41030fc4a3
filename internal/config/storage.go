package config

import (
	"github.com/spf13/viper"
)

type Storage struct {
	Driver string
	Path   string
}

const (
	Cfg_storage_driver = "storage.driver"
	Cfg_storage_path   = "storage.path"
)

var (
	storageDefaults = map[string]interface{}{
		Cfg_storage_driver: "pebble",
		Cfg_storage_path:   "./data",
	}
)

func init() {
	for k, v := range storageDefaults {
		viper.SetDefault(k, v)
	}
}

func buildStorageConfig() (*Storage, error) {
	return &Storage{
		Driver: viper.GetString(Cfg_storage_driver),
		Path:   viper.GetString(Cfg_storage_path),
	}, nil
}
