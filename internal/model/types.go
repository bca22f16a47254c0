package model

import (
	"fmt"
	"strings"
)

// Totals is the six-value nutrient aggregate shared by log entries and
// summaries. Entry builder scales it, the aggregation engine sums it; all
// six-field arithmetic lives here.
type Totals struct {
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinsG    float64 `json:"proteins_g"`
	FatsG        float64 `json:"fats_g"`
	CarbsG       float64 `json:"carbs_g"`
	SugarsG      float64 `json:"sugars_g"`
	FiberG       float64 `json:"fiber_g"`
}

// Add returns the elementwise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		CaloriesKcal: t.CaloriesKcal + o.CaloriesKcal,
		ProteinsG:    t.ProteinsG + o.ProteinsG,
		FatsG:        t.FatsG + o.FatsG,
		CarbsG:       t.CarbsG + o.CarbsG,
		SugarsG:      t.SugarsG + o.SugarsG,
		FiberG:       t.FiberG + o.FiberG,
	}
}

// Scale returns t multiplied elementwise by ratio.
func (t Totals) Scale(ratio float64) Totals {
	return Totals{
		CaloriesKcal: t.CaloriesKcal * ratio,
		ProteinsG:    t.ProteinsG * ratio,
		FatsG:        t.FatsG * ratio,
		CarbsG:       t.CarbsG * ratio,
		SugarsG:      t.SugarsG * ratio,
		FiberG:       t.FiberG * ratio,
	}
}

// NutrientProfile holds nutrient values per 100 g of product. Values absent in
// the source payload are zero, never null, so downstream arithmetic is safe.
type NutrientProfile struct {
	Totals
	SaltG float64 `json:"salt_g"`
}

// Product is a canonical nutrition record produced by normalizing either a
// remote OpenFoodFacts payload or a user-defined custom product. Barcode may
// be empty for custom products; identity then falls back to name+brand.
type Product struct {
	Barcode        string          `json:"barcode"`
	Name           string          `json:"name"`
	Brands         string          `json:"brands,omitempty"`
	NutritionGrade string          `json:"nutrition_grade,omitempty"`
	NovaGroup      int             `json:"nova_group,omitempty"`
	ImageURL       string          `json:"image_url,omitempty"`
	ServingSize    string          `json:"serving_size,omitempty"`
	Nutrients      NutrientProfile `json:"nutriments"`
}

// CustomProduct is a user-defined nutrition record kept in the local catalog,
// for foods the remote database does not know (restaurant dishes and such).
// All nutrient values are per 100 g.
type CustomProduct struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Brand            string  `json:"brand,omitempty"`
	ServingG         float64 `json:"serving_g,omitempty"`
	CaloriesKcal100g float64 `json:"calories_kcal_100g"`
	ProteinsG100g    float64 `json:"proteins_g_100g"`
	FatsG100g        float64 `json:"fats_g_100g"`
	CarbsG100g       float64 `json:"carbs_g_100g"`
	SugarsG100g      float64 `json:"sugars_g_100g"`
	FiberG100g       float64 `json:"fiber_g_100g"`
}

// ToProduct converts the custom record into a Product so resolution and
// logging treat both catalogs uniformly. Nutrient values copy 1:1.
func (c *CustomProduct) ToProduct() *Product {
	p := &Product{
		Name:   c.Name,
		Brands: c.Brand,
		Nutrients: NutrientProfile{
			Totals: Totals{
				CaloriesKcal: c.CaloriesKcal100g,
				ProteinsG:    c.ProteinsG100g,
				FatsG:        c.FatsG100g,
				CarbsG:       c.CarbsG100g,
				SugarsG:      c.SugarsG100g,
				FiberG:       c.FiberG100g,
			},
		},
	}
	if c.ServingG > 0 {
		p.ServingSize = formatServing(c.ServingG)
	}
	return p
}

func formatServing(grams float64) string {
	return fmt.Sprintf("%.0fg", grams)
}

// FoodEntry is one persisted food-log row. Nutrient totals are already scaled
// to AmountG. Entries are immutable; corrections are delete-and-reinsert.
type FoodEntry struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"` // YYYY-MM-DD
	MealType    MealType `json:"meal_type"`
	ProductName string   `json:"product_name"`
	Barcode     string   `json:"barcode,omitempty"`
	AmountG     float64  `json:"amount_g"`
	Totals
}

// MealType partitions log entries within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ParseMealType normalizes raw input to a canonical meal type. Matching is
// case-insensitive; anything outside the four recognized values is rejected.
func ParseMealType(raw string) (MealType, error) {
	switch m := MealType(strings.ToLower(strings.TrimSpace(raw))); m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return m, nil
	default:
		return "", ErrInvalidMealType
	}
}

// Rank is the fixed presentation and storage ordering of meals within a day.
// Unknown meal types (possible in pre-existing rows) sort after the four
// canonical ones.
func (m MealType) Rank() int {
	switch m {
	case MealBreakfast:
		return 0
	case MealLunch:
		return 1
	case MealDinner:
		return 2
	case MealSnack:
		return 3
	default:
		return 4
	}
}

// DailySummary aggregates one calendar day. Not persisted.
type DailySummary struct {
	Date    string       `json:"date"`
	Totals  Totals       `json:"totals"`
	Entries []*FoodEntry `json:"entries"`
}

// Active reports whether the day has at least one logged entry.
func (d *DailySummary) Active() bool { return len(d.Entries) > 0 }

// TrendDirection classifies the recent-vs-earlier calorie comparison.
type TrendDirection string

const (
	TrendStable   TrendDirection = "stable"
	TrendIncrease TrendDirection = "increase"
	TrendDecrease TrendDirection = "decrease"
)

// CalorieTrend compares the average daily calories of the last 3 days against
// the 4 days before them. DiffKcal keeps its sign.
type CalorieTrend struct {
	Direction TrendDirection `json:"direction"`
	DiffKcal  float64        `json:"diff_kcal"`
}

// WeeklySummary covers the 7 calendar days ending today, today first.
// Average divides by ActiveDays only; days without entries do not dilute it.
// Trend is nil when either comparison window has no active day.
type WeeklySummary struct {
	Days       []*DailySummary `json:"days"`
	ActiveDays int             `json:"active_days"`
	Average    Totals          `json:"average"`
	Trend      *CalorieTrend   `json:"trend,omitempty"`
}
