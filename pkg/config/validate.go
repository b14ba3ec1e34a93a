package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("log_level", c.LogLevel, validLogLevel),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("preferences_file", c.PreferencesFile, isFileOrNotExist),
		fieldError("sync.timeout", positiveDuration(c.Sync.Timeout)),
		fieldError("undo.max_depth", validDepth(c.Undo.MaxDepth)),
	)
}

func fieldError(field string, err error) error {
	if err == nil {
		return nil
	}
	return criterio.NewFieldErrors(field, err)
}

func validLogLevel(level string) error {
	if _, err := zerolog.ParseLevel(level); err != nil {
		return fmt.Errorf("unknown level %q", level)
	}
	return nil
}

func positiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive, got %s", d)
	}
	return nil
}

func validDepth(n int) error {
	if n < -1 {
		return fmt.Errorf("must be -1 (unlimited) or at least 0, got %d", n)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is set and is a directory or
// doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return fmt.Errorf("cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// isFileOrNotExist validates that a path is set and is a regular file or
// doesn't exist.
func isFileOrNotExist(path string) error {
	if path == "" {
		return fmt.Errorf("cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return nil
}
