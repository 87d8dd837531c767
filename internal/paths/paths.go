// Package paths resolves where keymarker keeps its config, database and
// traces.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv overrides the data directory when set.
const HomeEnv = "KEYMARKER_HOME"

// DataDir returns the directory for the marker database: $KEYMARKER_HOME if
// set, else ~/.keymarker. It falls back to ./.keymarker when the home
// directory is unknown.
func DataDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return Expand(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".keymarker"
	}
	return filepath.Join(home, ".keymarker")
}

// ConfigDir returns ~/.config/keymarker.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".keymarker"
	}
	return filepath.Join(home, ".config", "keymarker")
}

// LocalConfigFile is the per-directory config checked before the user config.
func LocalConfigFile() string {
	return filepath.Join(".keymarker", "config.yaml")
}

// DatabaseFile returns the default marker database path.
func DatabaseFile() string {
	return filepath.Join(DataDir(), "markers.db")
}

// TracesFile returns the default JSONL trace output path.
func TracesFile() string {
	return filepath.Join(ConfigDir(), "traces", "traces.jsonl")
}

// Expand replaces a leading "~" with the home directory and cleans the
// result. Paths without "~" are only cleaned.
func Expand(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return filepath.Clean(path)
}
