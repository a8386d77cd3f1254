// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when present and no explicit file is given.
const DefaultEnvFile = ".env"

// Config holds the settings shared by every dtree command.
type Config struct {
	LogLevel string `env:"DTREE_LOG_LEVEL" envDefault:"info"`

	// Utility and Goal override the tree document when set.
	Utility string `env:"DTREE_UTILITY"`
	Goal    string `env:"DTREE_GOAL"`
	// Precision < 0 means "derive from the values".
	Precision int    `env:"DTREE_PRECISION" envDefault:"-1"`
	Addr      string `env:"DTREE_ADDR" envDefault:":8080"`
	Strict    bool   `env:"DTREE_STRICT" envDefault:"false"`
}

// PrecisionOverride returns the configured precision, or nil when it should be
// derived from the values.
func (c Config) PrecisionOverride() *int {
	if c.Precision < 0 {
		return nil
	}
	p := c.Precision
	return &p
}

// Load reads envFile (or DefaultEnvFile when empty and present) into the
// process environment, then parses Config from it. Variables already set in
// the environment win over the file.
func Load(envFile string) (Config, error) {
	file := envFile
	if file == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			file = DefaultEnvFile
		}
	}
	if file != "" {
		if err := godotenv.Load(file); err != nil {
			if !(envFile == "" && errors.Is(err, os.ErrNotExist)) {
				return Config{}, fmt.Errorf("failed to load env file %s: %w", file, err)
			}
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
