// Package config loads server configuration from an optional JSON file with
// environment-variable override.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const defaultConfigFile = "config.json"

// Config represents the application's configuration structure.
type Config struct {
	Address string `json:"address" mapstructure:"address"`
	DBPath  string `json:"db-path" mapstructure:"db-path"`
	BaseURL string `json:"base-url" mapstructure:"base-url"`
}

// field: default value
var defaults = map[string]any{
	"address":  ":8080",
	"db-path":  "posaudit.db",
	"base-url": "http://localhost:8080",
}

// Load reads configuration from config.json (when present) and environment
// variables. Environment variables take precedence over the config file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for field, value := range defaults {
		v.SetDefault(field, value)
		v.BindEnv(field)
	}

	// A missing config file is fine; env vars and defaults still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !isNotExist(err) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &cfg, nil
}

func isNotExist(err error) bool {
	return strings.Contains(err.Error(), "no such file")
}
