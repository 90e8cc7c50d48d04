package config

import (
	"os"
	"path/filepath"
)

// StateDir returns the directory for runtime state, respecting XDG_STATE_HOME.
func StateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "tasks")
}

// LogPath returns the default client log file path.
func LogPath() string {
	return filepath.Join(StateDir(), "tasks.log")
}
