// Package config loads the daemon configuration from the process
// environment, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultPort                = "8080"
	DefaultSavePath            = "_tmp"
	DefaultFileLimit           = 100000
	DefaultSingleFileSizeLimit = 10240
	DefaultStaticRoot          = "."
)

type Config struct {
	Port                string `mapstructure:"PORT"`
	SavePath            string `mapstructure:"SAVE_PATH"`
	FileLimit           int    `mapstructure:"FILE_LIMIT"`             // how many notes may exist before creation is refused
	SingleFileSizeLimit int64  `mapstructure:"SINGLE_FILE_SIZE_LIMIT"` // byte ceiling for a single note body
	StaticRoot          string `mapstructure:"STATIC_ROOT"`
}

// LoadFromEnv reads the configuration from environment variables. A .env
// file in the working directory is loaded first when present. Malformed or
// negative numeric values are an error, not a silent fallback to defaults.
func LoadFromEnv() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	keys := []string{
		"PORT", "SAVE_PATH", "FILE_LIMIT", "SINGLE_FILE_SIZE_LIMIT", "STATIC_ROOT",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("SAVE_PATH", DefaultSavePath)
	v.SetDefault("FILE_LIMIT", DefaultFileLimit)
	v.SetDefault("SINGLE_FILE_SIZE_LIMIT", DefaultSingleFileSizeLimit)
	v.SetDefault("STATIC_ROOT", DefaultStaticRoot)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.FileLimit < 0 {
		return nil, fmt.Errorf("FILE_LIMIT must not be negative, got %d", cfg.FileLimit)
	}
	if cfg.SingleFileSizeLimit < 0 {
		return nil, fmt.Errorf("SINGLE_FILE_SIZE_LIMIT must not be negative, got %d", cfg.SingleFileSizeLimit)
	}

	return &cfg, nil
}

// Addr returns the listen address derived from the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}
