// Package config handles configuration loading and validation for
// lint-todo-migrate.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStorageName   = ".lint-todo"
	DefaultLegacyPattern = "**/*.json"
)

// Config holds the application configuration.
type Config struct {
	// StorageName is shared by the legacy directory and the storage file.
	StorageName string `yaml:"storage_name"`
	// RemoveV1 drops version 1 todos during migration. The --removeV1 flag
	// enables it as well.
	RemoveV1 bool `yaml:"remove_v1"`
	// LegacyPattern selects todo documents inside the legacy directory.
	LegacyPattern string `yaml:"legacy_pattern"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		StorageName:   DefaultStorageName,
		LegacyPattern: DefaultLegacyPattern,
	}
}

// Load reads the config file at configPath on top of the defaults. A missing
// file or empty path yields the defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if err := validateConfigFile(configPath); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.StorageName == "" {
		c.StorageName = defaults.StorageName
	}
	if c.LegacyPattern == "" {
		c.LegacyPattern = defaults.LegacyPattern
	}
}
