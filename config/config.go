// Package config loads server configuration from environment variables and
// an optional config.yaml, with sensible defaults for local development.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all server settings.
type Config struct {
	Port           int      `mapstructure:"port"`
	DBPath         string   `mapstructure:"db_path"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration in precedence order: defaults, then config.yaml
// (if present in path), then CASHIER_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "cashier.db")
	v.SetDefault("allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("CASHIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine; defaults and env cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
