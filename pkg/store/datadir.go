package store

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "intentions"

// DataDirEnv names the environment variable that overrides DefaultDataDir.
const DataDirEnv = "INTENTIONS_DIR"

// DefaultDataDir returns the directory holding preferences and the local
// task list. $INTENTIONS_DIR wins when set; otherwise:
//
//   - macOS:   ~/Library/Application Support/intentions
//   - Linux:   $XDG_DATA_HOME/intentions (fallback ~/.local/share/intentions)
//   - Windows: %LOCALAPPDATA%\intentions (fallback %APPDATA%\intentions)
func DefaultDataDir() string {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir
	}
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, appName)
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, ".local", "share", appName)
	}
}
