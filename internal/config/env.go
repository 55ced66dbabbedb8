package config

import (
	"os"

	"github.com/nibzard/tasks-go/internal/utils"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "TASKS_"

// envVars maps source field names to their environment variables.
var envVars = map[string]string{
	"storage_dir":    EnvPrefix + "STORAGE_DIR",
	"storage_key":    EnvPrefix + "STORAGE_KEY",
	"log_dir":        EnvPrefix + "LOG_DIR",
	"log_level":      EnvPrefix + "LOG_LEVEL",
	"log_format":     EnvPrefix + "LOG_FORMAT",
	"log_timestamps": EnvPrefix + "LOG_TIMESTAMPS",
	"log_caller":     EnvPrefix + "LOG_CALLER",
	"notify_timeout": EnvPrefix + "NOTIFY_TIMEOUT",
	"alt_screen":     EnvPrefix + "ALT_SCREEN",
}

// EnvVar returns the environment variable for a config field.
func EnvVar(field string) string {
	return envVars[field]
}

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	str := func(field string, target *string) {
		if v := os.Getenv(envVars[field]); v != "" {
			*target = v
			if sources != nil {
				sources[field] = SourceEnv
			}
		}
	}
	boolean := func(field string, target *bool) {
		if v := os.Getenv(envVars[field]); v != "" {
			*target = utils.ParseBool(v)
			if sources != nil {
				sources[field] = SourceEnv
			}
		}
	}

	str("storage_dir", &cfg.StorageDir)
	str("storage_key", &cfg.StorageKey)
	str("log_dir", &cfg.LogDir)
	str("log_level", &cfg.LogLevel)
	str("log_format", &cfg.LogFormat)
	boolean("log_timestamps", &cfg.LogTimestamps)
	boolean("log_caller", &cfg.LogCaller)
	str("notify_timeout", &cfg.NotifyTimeout)
	boolean("alt_screen", &cfg.AltScreen)
}
