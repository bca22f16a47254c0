// Package factory selects infrastructure adapters from configuration.
package factory

import (
	"fmt"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/config"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store/postgres"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store/sqlite"
)

// NewStore selects the storage adapter based on cfg.DBDriver.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
