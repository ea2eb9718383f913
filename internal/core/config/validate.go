package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/lint-todo-migrate/internal/core/validate"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("storage_name", c.StorageName, validate.BareName),
		criterio.Run("legacy_pattern", c.LegacyPattern, validate.GlobPattern),
	)
}

// validateConfigFile accepts an empty or missing path; an existing path must
// be a regular file.
func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}
