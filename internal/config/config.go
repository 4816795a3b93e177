package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/sadopc/hobbytrack/internal/store"
)

// Prefix is prepended to every environment variable, e.g. HOBBYTRACK_DB_PATH.
const Prefix = "HOBBYTRACK"

// Config holds runtime configuration loaded from the environment.
type Config struct {
	DBPath   string `envconfig:"DB_PATH"`
	DataDir  string `envconfig:"DATA_DIR"`
	LogFile  string `envconfig:"LOG_FILE"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// Theme overrides the stored theme setting when non-empty.
	Theme string `envconfig:"THEME"`
}

// Load reads the environment and fills in path defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".local", "share", "hobbytrack")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "hobbytrack.log")
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if cfg.Theme != "" && cfg.Theme != "dark" && cfg.Theme != "light" {
		return nil, fmt.Errorf("load config: theme must be dark or light, got %q", cfg.Theme)
	}
	return &cfg, nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("load config: log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
