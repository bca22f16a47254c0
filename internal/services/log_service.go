package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/resolver"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

// LogService is the caller-facing write path of the food log: resolve an
// identifier, scale it to the consumed amount, persist the entry.
type LogService struct {
	resolver *resolver.Resolver
	store    store.Store
	log      zerolog.Logger
}

func NewLogService(r *resolver.Resolver, s store.Store, log zerolog.Logger) *LogService {
	return &LogService{resolver: r, store: s, log: log}
}

// LogFood resolves the identifier, builds a scaled entry dated today and
// persists it. The returned entry carries its assigned id.
func (s *LogService) LogFood(ctx context.Context, identifier string, amountG float64, mealType, today string) (*model.FoodEntry, error) {
	product, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	entry, err := BuildEntry(product, amountG, mealType, today)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	id, err := s.store.FoodLog().Insert(ctx, entry)
	if err != nil {
		s.log.Error().Err(err).Str("product", entry.ProductName).Msg("food log insert failed")
		return nil, err
	}
	entry.ID = id

	s.log.Info().
		Int64("entry_id", id).
		Str("product", entry.ProductName).
		Float64("amount_g", amountG).
		Str("meal_type", string(entry.MealType)).
		Dur("elapsed", time.Since(start)).
		Msg("food logged")
	return entry, nil
}

// DeleteEntry removes one log entry by id. A missing id returns false.
func (s *LogService) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.FoodLog().DeleteByID(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Int64("entry_id", id).Msg("food log delete failed")
		return false, err
	}
	if deleted {
		s.log.Info().Int64("entry_id", id).Msg("food entry deleted")
	}
	return deleted, nil
}
