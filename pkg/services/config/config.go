// Package config loads the application configuration from an optional YAML
// file, environment overrides, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

const envPrefix = "EQUITY_ATLAS"

// Load resolves the effective configuration. Precedence, highest first:
// environment variables (EQUITY_ATLAS_SERVER_ADDR and friends), the YAML
// file at path (optional, missing file is not an error unless a path was
// given explicitly), defaults.
func Load(path string) (*domain.AppConfig, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("dataset.db_path", "equity-atlas.db")

	mining := domain.DefaultMiningConfig()
	v.SetDefault("mining.quantile", mining.Quantile)
	v.SetDefault("mining.default_min_support", mining.DefaultMinSupport)
	v.SetDefault("mining.default_min_confidence", mining.DefaultMinConfidence)
	v.SetDefault("mining.max_items", mining.MaxItems)
	v.SetDefault("mining.top_n", mining.TopN)

	v.SetDefault("narrator.enabled", false)
	v.SetDefault("narrator.model", "gemini-2.0-flash")
	v.SetDefault("narrator.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("equity-atlas")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg domain.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
