package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags.

# Directory holding the task list (supports ~ and $VAR expansion)
storage_dir = "~/.tasks"

# Storage key; the list is stored as <storage_dir>/<storage_key>.json
storage_key = "tasks"

# Per-run log files for the TUI
log_dir = "~/.tasks/logs"

# Logging: debug, info, warn, error
log_level = "info"

# Log format: text, json, logfmt
log_format = "text"
log_timestamps = false
log_caller = false

# How long notifications stay on screen
notify_timeout = "3s"

# Draw the TUI in the alternate screen buffer
alt_screen = true
`
}
