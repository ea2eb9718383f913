package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hay-kot/lint-todo-migrate/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "lint-todo-migrate", "config.yaml")
}

func (f *Flags) config() config.Config {
	if f.Config == nil {
		return config.DefaultConfig()
	}
	return *f.Config
}

// resolveBaseDir turns the optional working directory argument into an
// absolute path. An empty argument or "." is the process working directory.
func resolveBaseDir(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}

	dir, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("working directory %s is not a directory", dir)
	}

	return dir, nil
}
