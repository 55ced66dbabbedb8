package config

import (
	"flag"
)

// flagFields maps global flag names to source field names.
var flagFields = map[string]string{
	"storage-dir":    "storage_dir",
	"storage-key":    "storage_key",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
	"notify-timeout": "notify_timeout",
	"alt-screen":     "alt_screen",
}

// parseFlags defines and parses the global CLI flags.
//
// Flags bind to scratch variables and are applied only when set on the
// command line, so an unset flag never clobbers a value from a file or the
// environment. If sources is non-nil, it tracks the source of each value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}

	var (
		storageDir, storageKey, logDir string
		logLevel, logFormat            string
		logTimestamps, logCaller       bool
		notifyTimeout                  string
		altScreen                      bool
	)

	// Storage
	fs.StringVar(&storageDir, "storage-dir", cfg.StorageDir, "Directory holding the task list")
	fs.StringVar(&storageKey, "storage-key", cfg.StorageKey, "Storage key (file name without .json)")

	// Logging
	fs.StringVar(&logDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	// TUI
	fs.StringVar(&notifyTimeout, "notify-timeout", cfg.NotifyTimeout, "How long notifications stay visible (e.g. 3s)")
	fs.BoolVar(&altScreen, "alt-screen", cfg.AltScreen, "Run the TUI in the alternate screen buffer")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		field, ok := flagFields[f.Name]
		if !ok {
			return
		}
		switch f.Name {
		case "storage-dir":
			cfg.StorageDir = storageDir
		case "storage-key":
			cfg.StorageKey = storageKey
		case "log-dir":
			cfg.LogDir = logDir
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		case "notify-timeout":
			cfg.NotifyTimeout = notifyTimeout
		case "alt-screen":
			cfg.AltScreen = altScreen
		}
		if sources != nil {
			sources[field] = SourceFlag
		}
	})

	return nil
}
