// Package config loads planboard settings from a YAML file, the
// environment, and command line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "planboard"
	configFile = "config.yaml"
	envPrefix  = "PLANBOARD_"

	BackendSQLite = "sqlite"
	BackendBadger = "badger"

	DefaultHistoryLimit = 100
)

// Config is the full set of user settings
type Config struct {
	Backend   string        `yaml:"backend"`
	DataDir   string        `yaml:"data_dir"`
	ExportDir string        `yaml:"export_dir,omitempty"`
	History   HistoryConfig `yaml:"history"`
	Log       LogConfig     `yaml:"log"`
}

// HistoryConfig bounds the undo stack
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file,omitempty"`
}

// Default returns the settings used when nothing is configured
func Default() (*Config, error) {
	dataDir, err := defaultDataDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Backend: BackendSQLite,
		DataDir: dataDir,
		History: HistoryConfig{Limit: DefaultHistoryLimit},
		Log:     LogConfig{Level: "info", Format: "text"},
	}, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/planboard/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, appName, configFile), nil
}

// defaultDataDir uses the XDG data directory or falls back to the home
// directory
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName), nil
}

// Load reads the config file at path over the defaults, then applies
// PLANBOARD_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ApplyEnv overrides fields from PLANBOARD_* variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("BACKEND", &c.Backend)
	str("DATA_DIR", &c.DataDir)
	str("EXPORT_DIR", &c.ExportDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)

	if v, ok := lookup(envPrefix + "HISTORY_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sHISTORY_LIMIT: %w", envPrefix, err)
		}
		c.History.Limit = n
	}
	return nil
}

// Validate rejects settings the application cannot start with
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendSQLite, BackendBadger:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendSQLite, BackendBadger)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ExportPath is where Save and Save As write files
func (c *Config) ExportPath() string {
	if c.ExportDir == "" {
		return "."
	}
	return c.ExportDir
}

// LogPath is the file the TUI logs to
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, appName+".log")
}
