package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPreferencesWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PrefsFile)

	prefs := LoadPreferences(zerolog.Nop(), path, dir)
	assert.Equal(t, DefaultPreferences(dir), prefs)
	assert.Empty(t, prefs.CloudSaveLocation)

	saved, err := Load[Preferences](path)
	require.NoError(t, err, "defaults are written back")
	assert.Equal(t, prefs, saved)
}

func TestLoadPreferencesKeepsUserValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PrefsFile)
	content := `{"cloudSaveLocation":"https://blob.example/list?sig=x","localSaveLocation":""}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	prefs := LoadPreferences(zerolog.Nop(), path, dir)
	assert.Equal(t, "https://blob.example/list?sig=x", prefs.CloudSaveLocation)
	assert.Equal(t, filepath.Join(dir, TaskListFile), prefs.LocalSaveLocation, "empty location is filled in")
	assert.Equal(t, 100, prefs.WindowWidth, "absent keys take defaults")

	saved, err := Load[Preferences](path)
	require.NoError(t, err)
	assert.Equal(t, prefs, saved)
}

func TestLoadPreferencesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PrefsFile)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	prefs := LoadPreferences(zerolog.Nop(), path, dir)
	assert.Equal(t, DefaultPreferences(dir), prefs)
}
