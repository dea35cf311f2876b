package domain

import "time"

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatasetConfig struct {
	DBPath string `mapstructure:"db_path" validate:"required"`
}

type MiningConfig struct {
	// Quantile is the discretization threshold quantile over non-null rates.
	Quantile             float64 `mapstructure:"quantile" validate:"gt=0,lt=1"`
	DefaultMinSupport    float64 `mapstructure:"default_min_support" validate:"gt=0,lte=1"`
	DefaultMinConfidence float64 `mapstructure:"default_min_confidence" validate:"gt=0,lte=1"`
	// MaxItems bounds the item universe per scope; larger scopes are
	// rejected instead of letting enumeration run away.
	MaxItems int `mapstructure:"max_items" validate:"gt=0"`
	TopN     int `mapstructure:"top_n" validate:"gt=0"`
}

type NarratorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
}

type AppConfig struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Dataset  DatasetConfig  `mapstructure:"dataset" validate:"required"`
	Mining   MiningConfig   `mapstructure:"mining" validate:"required"`
	Narrator NarratorConfig `mapstructure:"narrator"`
}

func DefaultMiningConfig() MiningConfig {
	return MiningConfig{
		Quantile:             0.75,
		DefaultMinSupport:    0.01,
		DefaultMinConfidence: 0.3,
		MaxItems:             64,
		TopN:                 10,
	}
}
