// Package config handles configuration loading and validation for intentions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/intentions/pkg/store"
)

// FileName is the config file looked up in the data directory when no path
// is given.
const FileName = "config.yaml"

// Config holds the application configuration.
type Config struct {
	LogLevel        string     `yaml:"log_level"`
	LogFile         string     `yaml:"log_file"`
	PreferencesFile string     `yaml:"preferences_file"`
	Sync            SyncConfig `yaml:"sync"`
	Undo            UndoConfig `yaml:"undo"`
	DataDir         string     `yaml:"-"` // set by caller, not from config file
}

// SyncConfig controls remote blob sync.
type SyncConfig struct {
	// Enabled turns remote reads and writes on. The blob URL itself lives in
	// the preferences file.
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// UndoConfig controls the undo history.
type UndoConfig struct {
	// MaxDepth bounds the number of undo steps: -1 is unlimited, 0 disables.
	MaxDepth int `yaml:"max_depth"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Sync: SyncConfig{
			Enabled: true,
			Timeout: 10 * time.Second,
		},
		Undo: UndoConfig{
			MaxDepth: 100,
		},
	}
}

// DefaultPath returns the config file location inside dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
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
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Sync.Timeout == 0 {
		c.Sync.Timeout = defaults.Sync.Timeout
	}
	if c.PreferencesFile == "" && c.DataDir != "" {
		c.PreferencesFile = filepath.Join(c.DataDir, store.PrefsFile)
	}
}
