package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures logsift's runtime settings.
type Config struct {
	// Timezone is the display zone name; Location is its resolved form.
	Timezone     string
	Location     *time.Location
	LogFile      string
	LogLevel     string
	MaxLineBytes int
	Workers      int
	Watch        bool
	SearchLimit  int
	// Warnings lists settings that were invalid and replaced by defaults.
	Warnings []string
}

const (
	defaultConfigPath   = "~/.config/logsift/config.toml"
	defaultLogFile      = "~/.local/state/logsift/logsift.log"
	defaultTimezone     = "UTC"
	defaultLogLevel     = "info"
	defaultMaxLineBytes = 1024 * 1024
	defaultWorkers      = 4
	defaultSearchLimit  = 200
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Timezone:     defaultTimezone,
		Location:     time.UTC,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
		MaxLineBytes: defaultMaxLineBytes,
		Workers:      defaultWorkers,
		Watch:        true,
		SearchLimit:  defaultSearchLimit,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Timezone     string `toml:"timezone"`
		LogFile      string `toml:"log_file"`
		LogLevel     string `toml:"log_level"`
		MaxLineBytes int    `toml:"max_line_bytes"`
		Workers      int    `toml:"workers"`
		Watch        *bool  `toml:"watch"`
		SearchLimit  int    `toml:"search_limit"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if tz := strings.TrimSpace(raw.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid timezone %q, using %s", tz, defaultTimezone))
		} else {
			cfg.Timezone = tz
			cfg.Location = loc
		}
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	if lvl := strings.ToLower(strings.TrimSpace(raw.LogLevel)); lvl != "" {
		if isValidLogLevel(lvl) {
			cfg.LogLevel = lvl
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid log_level %q, using %s", raw.LogLevel, defaultLogLevel))
		}
	}

	if raw.MaxLineBytes > 0 {
		cfg.MaxLineBytes = raw.MaxLineBytes
	}
	if raw.Workers > 0 {
		cfg.Workers = raw.Workers
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}
	if raw.SearchLimit > 0 {
		cfg.SearchLimit = raw.SearchLimit
	}

	return cfg, nil
}

func isValidLogLevel(lvl string) bool {
	for _, v := range validLogLevels {
		if v == lvl {
			return true
		}
	}
	return false
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
