// Package store loads and saves JSON-encoded values on the local filesystem.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ErrEmptyFile is returned when loading a file that exists but holds no data,
// including one that Load has just created.
var ErrEmptyFile = errors.New("file is empty")

// Decode reads a JSON value from r.
func Decode[T any](r io.Reader) (T, error) {
	var v T
	data, err := io.ReadAll(r)
	if err != nil {
		return v, fmt.Errorf("reading: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return v, ErrEmptyFile
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decoding: %w", err)
	}
	return v, nil
}

// Encode writes v to w as compact JSON.
func Encode[T any](w io.Writer, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	return nil
}

// Load reads a JSON value from path. A missing file is created empty first
// (along with its directory) and reported as ErrEmptyFile.
func Load[T any](path string) (T, error) {
	var v T
	if err := LoadInto(path, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// LoadInto is Load decoding over dst, so fields absent from the file keep
// the values dst already holds. dst may be partially written on error.
func LoadInto[T any](path string, dst *T) error {
	if err := touch(path); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("loading %s: %w", path, ErrEmptyFile)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// LoadOr is Load with fallback substituted, and the failure logged, on any
// error.
func LoadOr[T any](logger zerolog.Logger, path string, fallback T) T {
	v, err := Load[T](path)
	if err != nil {
		evt := logger.Warn()
		if errors.Is(err, ErrEmptyFile) {
			evt = logger.Debug()
		}
		evt.Err(err).Str("path", path).Msg("load failed, using default")
		return fallback
	}
	return v
}

// Save writes v to path as JSON, replacing the file atomically.
func Save[T any](path string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return WriteFile(path, data)
}

// SaveOrLog is Save with failures logged instead of returned.
func SaveOrLog[T any](logger zerolog.Logger, path string, v T) {
	if err := Save(path, v); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("save failed")
	}
}

// WriteFile writes already-encoded data to path via a temp file and rename.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// touch creates an empty file at path if nothing exists there yet.
func touch(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return f.Close()
}
