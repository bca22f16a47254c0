package services

import (
	"fmt"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
)

// BuildEntry scales a product's per-100g profile to the consumed amount and
// stamps the supplied date. The date is injected by the caller so the builder
// never reads the clock itself.
//
// Scaling is exact floating multiplication; rounding is a presentation
// concern handled elsewhere.
func BuildEntry(product *model.Product, amountG float64, mealType string, today string) (*model.FoodEntry, error) {
	if amountG <= 0 {
		return nil, fmt.Errorf("%.1fg: %w", amountG, model.ErrInvalidAmount)
	}
	meal, err := model.ParseMealType(mealType)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", mealType, err)
	}

	ratio := amountG / 100.0
	return &model.FoodEntry{
		Date:        today,
		MealType:    meal,
		ProductName: product.Name,
		Barcode:     product.Barcode,
		AmountG:     amountG,
		Totals:      product.Nutrients.Totals.Scale(ratio),
	}, nil
}
