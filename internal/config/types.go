package config

import (
	"github.com/nibzard/tasks-go/internal/notify"
	"github.com/nibzard/tasks-go/internal/taskdir"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultStorageDir    = "~/" + taskdir.Dir
	DefaultStorageKey    = taskdir.DefaultStorageKey
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultNotifyTimeout = "3s"
	DefaultAltScreen     = true
)

// Config holds the full configuration for tasks.
type Config struct {
	// Storage
	StorageDir string `toml:"storage_dir"`
	StorageKey string `toml:"storage_key"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// TUI
	NotifyTimeout string `toml:"notify_timeout"` // Go duration, e.g. "3s"
	AltScreen     bool   `toml:"alt_screen"`
}

// fileConfig mirrors Config with pointer fields so a file can be told apart
// from defaults when it sets a value equal to the default.
type fileConfig struct {
	StorageDir    *string `toml:"storage_dir"`
	StorageKey    *string `toml:"storage_key"`
	LogDir        *string `toml:"log_dir"`
	LogLevel      *string `toml:"log_level"`
	LogFormat     *string `toml:"log_format"`
	LogTimestamps *bool   `toml:"log_timestamps"`
	LogCaller     *bool   `toml:"log_caller"`
	NotifyTimeout *string `toml:"notify_timeout"`
	AltScreen     *bool   `toml:"alt_screen"`
}

// DefaultLogDir is the logs directory inside the default storage dir.
var DefaultLogDir = taskdir.LogsPath("~")

// defaultNotifyTimeout mirrors notify.DefaultTimeout for config fallbacks.
var defaultNotifyTimeout = notify.DefaultTimeout
