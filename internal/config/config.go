// Package config loads the CLI settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// StoreKind selects where drafts and the session token are kept.
type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreFile   StoreKind = "file"
	StoreSQLite StoreKind = "sqlite"
)

// ErrUnknownStore is returned for unsupported BIZCRAFT_STORE values.
var ErrUnknownStore = errors.New("config: unknown store")

// Config holds the CLI settings.
type Config struct {
	AuthURL     string        `env:"BIZCRAFT_AUTH_URL"     envDefault:"http://localhost:5000"`
	Store       StoreKind     `env:"BIZCRAFT_STORE"        envDefault:"file"`
	DataDir     string        `env:"BIZCRAFT_DATA_DIR"`
	SQLitePath  string        `env:"BIZCRAFT_SQLITE_PATH"`
	LogLevel    string        `env:"BIZCRAFT_LOG_LEVEL"    envDefault:"warn"`
	LogFormat   string        `env:"BIZCRAFT_LOG_FORMAT"   envDefault:"console"`
	HTTPTimeout time.Duration `env:"BIZCRAFT_HTTP_TIMEOUT" envDefault:"10s"`
	Seed        uint64        `env:"BIZCRAFT_SEED"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the given .env files (".env" when none are named; missing files
// are skipped), parses the environment and fills derived defaults.
// Variables already set in the environment win over the files.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", name, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.normalise(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalise() error {
	c.Store = StoreKind(strings.ToLower(strings.TrimSpace(string(c.Store))))
	switch c.Store {
	case StoreMemory, StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store)
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "bizcraft.db")
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	return nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bizcraft")
	}
	return ".bizcraft"
}
