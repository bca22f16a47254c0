package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the nutrition tracker.
// Environment variables are parsed from the OFF_ prefix.
type Config struct {
	// DBDriver selects the storage adapter: sqlite (default) or postgres.
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`

	// SQLitePath is the database file location. Empty derives
	// ~/.openfoodfacts-mcp/nutrition.db.
	SQLitePath string `envconfig:"SQLITE_PATH" default:""`

	// PostgresDSN is required when DBDriver is postgres.
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// OpenFoodFacts remote catalog.
	BaseURL       string        `envconfig:"BASE_URL" default:"https://pl.openfoodfacts.org"`
	Locale        string        `envconfig:"LOCALE" default:"pl"`
	LookupTimeout time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"15s"`

	// MCP server identity and transports.
	ServerName      string        `envconfig:"SERVER_NAME" default:"openfoodfacts-mcp"`
	ServerVersion   string        `envconfig:"SERVER_VERSION" default:"1.0.0"`
	HTTPPort        int           `envconfig:"HTTP_PORT" default:"11560"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ResolveDefaults validates the driver choice and derives the SQLite path
// when unset.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home dir: %w", err)
			}
			c.SQLitePath = filepath.Join(home, ".openfoodfacts-mcp", "nutrition.db")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("OFF_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a Config by parsing environment variables and resolving
// derived defaults.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("off", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
