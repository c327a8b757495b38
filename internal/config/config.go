package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the host configuration, read from environment variables.
type Config struct {
	DBPath      string `env:"GRITQUEST_DB"`
	CharacterID string `env:"GRITQUEST_CHARACTER" envDefault:"main"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
