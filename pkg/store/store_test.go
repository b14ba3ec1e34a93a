package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/intentions/pkg/task"
)

const fiveTasks = `[{"title":"t1","description":"desc"},` +
	`{"title":"t2","description":"desc"},` +
	`{"title":"t3","description":"desc"},` +
	`{"title":"t4","description":"desc"},` +
	`{"title":"t5","description":"desc"}]`

func fiveTaskList() []*task.Task {
	return []*task.Task{
		task.New("t1", "desc", task.PriorityNone, nil),
		task.New("t2", "desc", task.PriorityNone, nil),
		task.New("t3", "desc", task.PriorityNone, nil),
		task.New("t4", "desc", task.PriorityNone, nil),
		task.New("t5", "desc", task.PriorityNone, nil),
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode[[]*task.Task](strings.NewReader(fiveTasks))
	require.NoError(t, err)

	want := fiveTaskList()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "task %d", i)
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, fiveTaskList()))
	assert.Equal(t, fiveTasks, buf.String())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode[[]*task.Task](strings.NewReader("  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Decode[[]*task.Task](strings.NewReader(`[{"title":`))
	assert.Error(t, err)
}

func TestLoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", TaskListFile)

	_, err := Load[[]*task.Task](path)
	assert.ErrorIs(t, err, ErrEmptyFile)

	info, err := os.Stat(path)
	require.NoError(t, err, "load creates the file")
	assert.Zero(t, info.Size())
}

func TestLoadOrFallsBack(t *testing.T) {
	dir := t.TempDir()
	fallback := []string{"default"}

	got := LoadOr(zerolog.Nop(), filepath.Join(dir, "missing.json"), fallback)
	assert.Equal(t, fallback, got)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{nope"), 0o644))
	got = LoadOr(zerolog.Nop(), corrupt, fallback)
	assert.Equal(t, fallback, got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), TaskListFile)
	require.NoError(t, Save(path, fiveTaskList()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fiveTasks, string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	got, err := Load[[]*task.Task](path)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, "t5", got[4].Title)
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.json")
	require.NoError(t, Save(path, []int{1, 2, 3}))
	require.NoError(t, Save(path, []int{4}))

	got, err := Load[[]int](path)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, got)
}

func TestLoadIntoKeepsAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), PrefsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"fontSize":20}`), 0o644))

	prefs := DefaultPreferences("/data")
	require.NoError(t, LoadInto(path, &prefs))
	assert.Equal(t, 20, prefs.FontSize)
	assert.Equal(t, filepath.Join("/data", TaskListFile), prefs.LocalSaveLocation)
}
