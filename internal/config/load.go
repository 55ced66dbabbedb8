package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasks-go/internal/storage"
)

// LoadWithSources loads configuration from multiple sources in priority
// order (defaults, user file, project file, environment, flags) and tracks
// the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}
	var files []string

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"storage_dir",
		"storage_key",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"notify_timeout",
		"alt_screen",
	}
}

// loadConfigFile decodes a TOML file and applies every key it sets.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	apply(&cfg.StorageDir, fc.StorageDir, sources, "storage_dir", source)
	apply(&cfg.StorageKey, fc.StorageKey, sources, "storage_key", source)
	apply(&cfg.LogDir, fc.LogDir, sources, "log_dir", source)
	apply(&cfg.LogLevel, fc.LogLevel, sources, "log_level", source)
	apply(&cfg.LogFormat, fc.LogFormat, sources, "log_format", source)
	apply(&cfg.LogTimestamps, fc.LogTimestamps, sources, "log_timestamps", source)
	apply(&cfg.LogCaller, fc.LogCaller, sources, "log_caller", source)
	apply(&cfg.NotifyTimeout, fc.NotifyTimeout, sources, "notify_timeout", source)
	apply(&cfg.AltScreen, fc.AltScreen, sources, "alt_screen", source)
	return nil
}

// apply sets *field from value when the file provided it.
func apply[T any](field *T, value *T, sources map[string]ConfigSource, name string, source ConfigSource) {
	if value == nil {
		return
	}
	*field = *value
	sources[name] = source
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.StorageDir = expandPath(cfg.StorageDir)
	cfg.LogDir = expandPath(cfg.LogDir)

	if cfg.StorageDir == "" {
		return fmt.Errorf("storage_dir must not be empty")
	}
	if err := storage.ValidateKey(cfg.StorageKey); err != nil {
		return fmt.Errorf("storage_key: %w", err)
	}
	if strings.TrimSpace(cfg.NotifyTimeout) != "" {
		if _, err := parsePositiveDuration(cfg.NotifyTimeout); err != nil {
			return fmt.Errorf("notify_timeout: %w", err)
		}
	}
	return nil
}
