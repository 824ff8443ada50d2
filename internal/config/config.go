package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

const (
	appName    = "tally"
	configFile = "config.yaml"
)

// Config holds tally settings. Zero values are filled from defaults.
type Config struct {
	DatabasePath     string `yaml:"database_path"`
	DefaultDayTarget int    `yaml:"default_day_target"`
	LogLevel         string `yaml:"log_level"` // debug, info, warn, error
}

// DefaultPath returns ~/.config/tally/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName, configFile), nil
}

func Default() (*Config, error) {
	dbPath, err := storage.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return &Config{
		DatabasePath:     dbPath,
		DefaultDayTarget: 5,
		LogLevel:         "warn",
	}, nil
}

// Load reads the config file named by TALLY_CONFIG (or the default path),
// falls back to defaults when it does not exist, then applies env overrides.
func Load() (*Config, error) {
	path := getEnv("TALLY_CONFIG", "")
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit file path.
func LoadFile(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.DatabasePath = getEnv("TALLY_DB", c.DatabasePath)
	c.LogLevel = getEnv("TALLY_LOG_LEVEL", c.LogLevel)
	if v := getEnv("TALLY_DAY_TARGET", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TALLY_DAY_TARGET: %w", err)
		}
		c.DefaultDayTarget = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return errors.New("database_path is required")
	}
	if c.DefaultDayTarget < 0 {
		return fmt.Errorf("default_day_target must be >= 0 (got %d)", c.DefaultDayTarget)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Save writes the config as yaml, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
