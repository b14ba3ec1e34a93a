package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWatcherNotifiesOnTaskFileOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskList.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	changed := make(chan struct{}, 8)
	stop, err := StartWatcher(path, zerolog.Nop(), func() { changed <- struct{}{} })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "prefs.json"), []byte("{}"), 0o644))
	select {
	case <-changed:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(3 * debounce):
	}

	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"x"}]`), 0o644))
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no notification after the task file changed")
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := StartWatcher(filepath.Join(t.TempDir(), "nope", "taskList.json"), zerolog.Nop(), func() {})
	require.Error(t, err)
}
