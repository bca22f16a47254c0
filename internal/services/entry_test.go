package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
)

func testProduct() *model.Product {
	return &model.Product{
		Barcode: "5900000000001",
		Name:    "Skyr naturalny",
		Nutrients: model.NutrientProfile{
			Totals: model.Totals{
				CaloriesKcal: 250,
				ProteinsG:    10,
				FatsG:        4,
				CarbsG:       30,
				SugarsG:      12,
				FiberG:       1.5,
			},
			SaltG: 0.2,
		},
	}
}

func TestBuildEntryScalesExactly(t *testing.T) {
	p := testProduct()

	entry, err := BuildEntry(p, 150, "lunch", "2025-03-10")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", entry.Date)
	assert.Equal(t, model.MealLunch, entry.MealType)
	assert.Equal(t, "Skyr naturalny", entry.ProductName)
	assert.Equal(t, "5900000000001", entry.Barcode)
	assert.Equal(t, 150.0, entry.AmountG)

	// exact scaling law: total = per100g * amount / 100
	assert.Equal(t, 250*150/100.0, entry.CaloriesKcal)
	assert.Equal(t, 10*150/100.0, entry.ProteinsG)
	assert.Equal(t, 4*150/100.0, entry.FatsG)
	assert.Equal(t, 30*150/100.0, entry.CarbsG)
	assert.Equal(t, 12*150/100.0, entry.SugarsG)
	assert.Equal(t, 1.5*150/100.0, entry.FiberG)
}

func TestBuildEntryNormalizesMealType(t *testing.T) {
	entry, err := BuildEntry(testProduct(), 100, "BREAKFAST", "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, model.MealBreakfast, entry.MealType)
}

func TestBuildEntryRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []float64{0, -1, -250} {
		_, err := BuildEntry(testProduct(), amount, "lunch", "2025-03-10")
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	}
}

func TestBuildEntryRejectsUnknownMealType(t *testing.T) {
	_, err := BuildEntry(testProduct(), 100, "brunch", "2025-03-10")
	assert.ErrorIs(t, err, model.ErrInvalidMealType)
}
