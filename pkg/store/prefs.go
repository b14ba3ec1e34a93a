package store

import (
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	PrefsFile    = "prefs.json"
	TaskListFile = "taskList.json"
)

// Preferences are the user-editable settings kept next to the task list.
// Only the two save locations matter to the task engine; the rest describe
// the terminal UI.
type Preferences struct {
	CloudSaveLocation string `json:"cloudSaveLocation"`
	LocalSaveLocation string `json:"localSaveLocation"`
	FontSize          int    `json:"fontSize"`
	WindowWidth       int    `json:"windowWidth"`
	WindowHeight      int    `json:"windowHeight"`
	DetailWidth       int    `json:"detailWidth"`
}

// DefaultPreferences returns preferences that keep the task list in dataDir
// and have remote sync disabled.
func DefaultPreferences(dataDir string) Preferences {
	return Preferences{
		LocalSaveLocation: filepath.Join(dataDir, TaskListFile),
		FontSize:          12,
		WindowWidth:       100,
		WindowHeight:      30,
		DetailWidth:       60,
	}
}

// LoadPreferences reads the preferences file, falling back to defaults, and
// writes the result back so the file always exists with every key present.
func LoadPreferences(logger zerolog.Logger, path, dataDir string) Preferences {
	defaults := DefaultPreferences(dataDir)
	prefs := defaults
	if err := LoadInto(path, &prefs); err != nil {
		evt := logger.Warn()
		if errors.Is(err, ErrEmptyFile) {
			evt = logger.Debug()
		}
		evt.Err(err).Str("path", path).Msg("preferences unreadable, using defaults")
		prefs = defaults
	}
	if prefs.LocalSaveLocation == "" {
		prefs.LocalSaveLocation = defaults.LocalSaveLocation
	}
	SaveOrLog(logger, path, prefs)
	return prefs
}
