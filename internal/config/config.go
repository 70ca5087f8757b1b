// Package config loads the application settings: who the player is and
// where their hand histories live.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its config file.
const DefaultPath = "./config/config.yaml"

// DefaultRefreshSchedule re-reads the hand histories once a minute.
const DefaultRefreshSchedule = "@every 1m"

// Config holds the application settings.
type Config struct {
	User            string   `yaml:"user"`
	HandHistoryDirs []string `yaml:"hand_history_dirs"`
	PatternsFile    string   `yaml:"patterns_file"`    // empty selects the embedded catalog
	RefreshSchedule string   `yaml:"refresh_schedule"` // cron spec or @every descriptor
	DatabasePath    string   `yaml:"database_path"`
	Debug           bool     `yaml:"debug"`
}

// ConfigError reports an unreadable or invalid config file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Default returns a config with every optional field at its default.
func Default() *Config {
	return &Config{RefreshSchedule: DefaultRefreshSchedule}
}

// Load reads the YAML file at path and applies environment overrides.
// A missing file is not an error; the result then comes from defaults and
// the environment alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, &ConfigError{Path: path, Err: err}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to unmarshal config: %w", err)}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = DefaultRefreshSchedule
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ACE_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("ACE_HAND_HISTORY_DIRS"); v != "" {
		c.HandHistoryDirs = filepath.SplitList(v)
	}
	if v := os.Getenv("ACE_PATTERNS_FILE"); v != "" {
		c.PatternsFile = v
	}
	if v := os.Getenv("ACE_REFRESH_SCHEDULE"); v != "" {
		c.RefreshSchedule = v
	}
	if v := os.Getenv("ACE_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("ACE_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ACE_DEBUG value: %w", err)
		}
		c.Debug = b
	}
	return nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}

// Validate checks the config is usable: a user, at least one existing
// directory and a parseable refresh schedule.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.User) == "" {
		return &ConfigError{Err: errors.New("user is not set")}
	}
	if len(c.HandHistoryDirs) == 0 {
		return &ConfigError{Err: errors.New("no hand history directories configured")}
	}
	for _, dir := range c.HandHistoryDirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return &ConfigError{Err: fmt.Errorf("hand history directory %q does not exist", dir)}
		}
	}
	if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
		return &ConfigError{Err: fmt.Errorf("refresh schedule %q: %w", c.RefreshSchedule, err)}
	}
	return nil
}
