/*
Config holds the engine's knobs: where the data file lives and how the buffer
pool is sized. Values are read from a yaml file; every knob has a default so
an empty file yields a working engine. Load fails when the file does not
exist; Default needs no file at all.
*/
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// DefaultPoolSize is the number of buffer frames when not configured
	DefaultPoolSize = 64
	// DefaultReplacerK is the K of the LRU-K replacement policy when not configured
	DefaultReplacerK = 2
	// DefaultDir is the base directory of the data file when not configured
	DefaultDir = "base"
)

// Config is the engine configuration
type Config struct {
	Storage struct {
		// Dir is the base directory holding the data file
		Dir string `mapstructure:"dir"`
		// PoolSize is the number of frames in the buffer pool
		PoolSize int `mapstructure:"pool_size"`
		// ReplacerK is the K of the LRU-K replacement policy
		ReplacerK int `mapstructure:"replacer_k"`
	} `mapstructure:"storage"`
}

// Default returns the configuration with every knob at its default
func Default() *Config {
	var cfg Config
	cfg.Storage.Dir = DefaultDir
	cfg.Storage.PoolSize = DefaultPoolSize
	cfg.Storage.ReplacerK = DefaultReplacerK
	return &cfg
}

// Load reads the configuration from the yaml file at path
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("storage.dir", DefaultDir)
	v.SetDefault("storage.pool_size", DefaultPoolSize)
	v.SetDefault("storage.replacer_k", DefaultReplacerK)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "v.ReadInConfig failed")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "v.Unmarshal failed")
	}
	return &cfg, nil
}
