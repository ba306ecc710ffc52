// Package config loads golox's runtime configuration from environment
// variables and an optional YAML file, in the ambient style the example
// corpus uses for CLI tools (struct tags over hand-rolled flag plumbing).
package config

import (
	"fmt"
	"os"

	caarlosenv "github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config controls interpreter behavior that isn't exposed as a CLI flag.
type Config struct {
	NoColor      bool   `env:"GOLOX_NO_COLOR" yaml:"no_color"`
	HistoryFile  string `env:"GOLOX_HISTORY_FILE" yaml:"history_file"`
	MaxCallDepth int    `env:"GOLOX_MAX_CALL_DEPTH" yaml:"max_call_depth"`
}

// Default returns a Config with only its env-declared defaults applied.
func Default() Config {
	return Config{MaxCallDepth: 255}
}

// Load builds a Config by layering, in increasing priority: built-in
// defaults, an optional YAML file (path from GOLOX_CONFIG, falling back to
// .golox.yaml in the working directory), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv("GOLOX_CONFIG")
	if path == "" {
		path = ".golox.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := caarlosenv.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
