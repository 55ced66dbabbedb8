package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/taskdir"
)

// NotifyTimeoutDuration parses NotifyTimeout. Empty, invalid, or
// non-positive values fall back to the notify package default.
func (c *Config) NotifyTimeoutDuration() time.Duration {
	d, err := parsePositiveDuration(c.NotifyTimeout)
	if err != nil {
		return defaultNotifyTimeout
	}
	return d
}

// StoragePath returns the file backing the task list.
func (c *Config) StoragePath() string {
	return taskdir.StoragePath(c.StorageDir, c.StorageKey)
}

// LoggingOptions returns the logger options described by the config.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:           c.LogLevel,
		Format:          c.LogFormat,
		ReportTimestamp: c.LogTimestamps,
		ReportCaller:    c.LogCaller,
	}
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}
