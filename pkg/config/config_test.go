package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Sync.Timeout)
	assert.Equal(t, 100, cfg.Undo.MaxDepth)
	assert.Equal(t, filepath.Join(dataDir, "prefs.json"), cfg.PreferencesFile)
	assert.Equal(t, dataDir, cfg.DataDir)

	missing, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)
	assert.Equal(t, cfg, missing)
}

func TestLoadFile(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, `
log_level: debug
log_file: /tmp/intentions.log
sync:
  enabled: false
  timeout: 3s
undo:
  max_depth: 0
`)

	cfg, err := Load(path, dataDir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/intentions.log", cfg.LogFile)
	assert.False(t, cfg.Sync.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Sync.Timeout)
	assert.Equal(t, 0, cfg.Undo.MaxDepth, "explicit zero disables undo")
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "undo:\n  max_depth: -1\n")

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Undo.MaxDepth)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "sync: [not, a, map")

	_, err := Load(path, t.TempDir())
	assert.ErrorContains(t, err, "parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.LogLevel = "loud" },
			field:  "log_level",
		},
		{
			name:   "negative timeout",
			mutate: func(c *Config) { c.Sync.Timeout = -time.Second },
			field:  "sync.timeout",
		},
		{
			name:   "depth below unlimited",
			mutate: func(c *Config) { c.Undo.MaxDepth = -2 },
			field:  "undo.max_depth",
		},
		{
			name:   "empty data dir",
			mutate: func(c *Config) { c.DataDir = "" },
			field:  "data_dir",
		},
		{
			name: "data dir is a file",
			mutate: func(c *Config) {
				c.DataDir = c.PreferencesFile
				require.NoError(t, os.WriteFile(c.DataDir, nil, 0o644))
			},
			field: "data_dir",
		},
		{
			name:   "preferences file is a directory",
			mutate: func(c *Config) { c.PreferencesFile = c.DataDir },
			field:  "preferences_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())

			tt.mutate(&cfg)
			err := cfg.Validate()

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}
}
