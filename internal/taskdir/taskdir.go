// Package taskdir provides constants and helpers for the ~/.tasks directory
// layout.
package taskdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the per-user state directory.
	Dir = ".tasks"

	// DefaultConfigFile is the config file name inside Dir and in a project.
	DefaultConfigFile = "tasks.toml"

	// HiddenConfigFile is the dotfile variant accepted in a project directory.
	HiddenConfigFile = ".tasks.toml"

	// LogsDir is the log directory name inside Dir.
	LogsDir = "logs"

	// DefaultStorageKey is the storage key holding the task list.
	DefaultStorageKey = "tasks"
)

// DirPath returns the .tasks directory under base. An empty base means the
// user's home directory; "." means the current directory.
func DirPath(base string) string {
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Dir
		}
		base = home
	}
	if base == "." {
		return Dir
	}
	return filepath.Join(base, Dir)
}

// ConfigPath returns the config file path within the .tasks directory.
func ConfigPath(base string) string {
	return filepath.Join(DirPath(base), DefaultConfigFile)
}

// LogsPath returns the log directory within the .tasks directory.
func LogsPath(base string) string {
	return filepath.Join(DirPath(base), LogsDir)
}

// StoragePath returns the file backing key inside storageDir.
func StoragePath(storageDir, key string) string {
	return filepath.Join(storageDir, key+".json")
}
