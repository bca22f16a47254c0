package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/offclient"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/resolver"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

func newLogFixture(t *testing.T, handler http.HandlerFunc) (*LogService, *SummaryService, store.Store) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	st := newTestStore(t)
	remote := offclient.New(ts.URL, "pl", 5*time.Second, zerolog.Nop())
	res := resolver.New(st.CustomProducts(), remote, zerolog.Nop())
	return NewLogService(res, st, zerolog.Nop()),
		NewSummaryService(st, zerolog.Nop()),
		st
}

func TestLogFoodByBarcodeEndToEnd(t *testing.T) {
	ctx := context.Background()
	logSvc, summarySvc, _ := newLogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/product/0123456789012", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 1, "product":
            {"code": "0123456789012", "product_name": "Jogurt naturalny",
             "nutriments": {"energy-kcal_100g": 250, "proteins_100g": 10}}}`))
	})

	entry, err := logSvc.LogFood(ctx, "0123456789012", 150, "lunch", "2025-03-10")
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Equal(t, 375.0, entry.CaloriesKcal)
	assert.Equal(t, 15.0, entry.ProteinsG)
	assert.Equal(t, model.MealLunch, entry.MealType)

	s, err := summarySvc.Daily(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 375.0, s.Totals.CaloriesKcal)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, model.MealLunch, s.Entries[0].MealType)
	assert.Equal(t, "Jogurt naturalny", s.Entries[0].ProductName)
}

func TestLogFoodPrefersCustomProduct(t *testing.T) {
	ctx := context.Background()
	remoteCalls := 0
	logSvc, _, st := newLogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		remoteCalls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := st.CustomProducts().Create(ctx, &model.CustomProduct{
		Name:             "Domowa owsianka",
		CaloriesKcal100g: 110,
	})
	require.NoError(t, err)

	entry, err := logSvc.LogFood(ctx, "Domowa owsianka", 200, "breakfast", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 220.0, entry.CaloriesKcal)
	assert.Equal(t, "Domowa owsianka", entry.ProductName)
	assert.Zero(t, remoteCalls, "a local match must not trigger remote lookups")
}

func TestLogFoodNotFound(t *testing.T) {
	logSvc, _, _ := newLogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": []}`))
	})

	_, err := logSvc.LogFood(context.Background(), "nie istnieje", 100, "snack", "2025-03-10")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLogFoodValidation(t *testing.T) {
	logSvc, _, st := newLogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := st.CustomProducts().Create(context.Background(), &model.CustomProduct{
		Name:             "Owsianka",
		CaloriesKcal100g: 110,
	})
	require.NoError(t, err)

	_, err = logSvc.LogFood(context.Background(), "Owsianka", 0, "snack", "2025-03-10")
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = logSvc.LogFood(context.Background(), "Owsianka", 100, "brunch", "2025-03-10")
	assert.ErrorIs(t, err, model.ErrInvalidMealType)
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	logSvc, _, st := newLogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	id, err := st.FoodLog().Insert(ctx, &model.FoodEntry{
		Date: "2025-03-10", MealType: model.MealLunch, ProductName: "Mleko", AmountG: 100,
	})
	require.NoError(t, err)

	deleted, err := logSvc.DeleteEntry(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = logSvc.DeleteEntry(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}
