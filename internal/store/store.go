// Package store defines the persistence contract for the food log and the
// local custom-product catalog. Implementations live under
// internal/store/<driver>/ (sqlite, postgres).
package store

import (
	"context"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
)

// Store exposes persistence operations required by services.
type Store interface {
	FoodLog() FoodLog
	CustomProducts() CustomProducts

	// HealthPing verifies the backing database is reachable.
	HealthPing(ctx context.Context) error
}

// FoodLog is the durable food-log table. Rows are immutable once inserted;
// corrections are delete-and-reinsert.
type FoodLog interface {
	// Insert persists the entry and returns a fresh surrogate id. Ids are
	// monotonically increasing and never reused within a database.
	Insert(ctx context.Context, e *model.FoodEntry) (int64, error)

	// DeleteByID removes the row if present. A missing id is a no-op that
	// returns false, not an error.
	DeleteByID(ctx context.Context, id int64) (bool, error)

	// EntriesForDate returns all rows with an exact date match, ordered by
	// (meal rank, id). Meal types outside the canonical four sort last.
	EntriesForDate(ctx context.Context, date string) ([]*model.FoodEntry, error)
}

// CustomProducts is the user-defined product catalog.
type CustomProducts interface {
	Create(ctx context.Context, p *model.CustomProduct) (int64, error)

	// FindByNameOrID matches the identifier against a case-insensitive
	// exact name or a numeric id. Returns (nil, nil) when nothing matches.
	FindByNameOrID(ctx context.Context, identifier string) (*model.CustomProduct, error)

	List(ctx context.Context) ([]*model.CustomProduct, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
