package handlers

import (
	"fmt"
	"strings"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
)

// Rendering lives in the handlers; all rounding happens here and nowhere
// below this layer.

var mealOrder = []model.MealType{model.MealBreakfast, model.MealLunch, model.MealDinner, model.MealSnack}

func formatSearchResults(query string, page int, products []*model.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search results: %q (page %d)\n\n", query, page)
	for i, p := range products {
		brand := ""
		if p.Brands != "" {
			brand = fmt.Sprintf(" (%s)", p.Brands)
		}
		grade := ""
		if p.NutritionGrade != "" {
			grade = fmt.Sprintf(" [Nutri-Score %s]", strings.ToUpper(p.NutritionGrade))
		}
		n := p.Nutrients
		fmt.Fprintf(&b, "%d. **%s**%s%s\n   Barcode: %s\n   Per 100g: %.0f kcal | P:%.1f F:%.1f C:%.1f\n\n",
			i+1, p.Name, brand, grade, p.Barcode,
			n.CaloriesKcal, n.ProteinsG, n.FatsG, n.CarbsG)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatProduct(p *model.Product) string {
	n := p.Nutrients
	var lines []string
	if p.Brands != "" {
		lines = append(lines, fmt.Sprintf("**%s** (%s)", p.Name, p.Brands))
	} else {
		lines = append(lines, fmt.Sprintf("**%s**", p.Name))
	}
	if p.Barcode != "" {
		lines = append(lines, "Barcode: "+p.Barcode)
	}
	if p.NutritionGrade != "" {
		lines = append(lines, "Nutri-Score: "+strings.ToUpper(p.NutritionGrade))
	}
	if p.NovaGroup > 0 {
		lines = append(lines, fmt.Sprintf("NOVA: %d", p.NovaGroup))
	}
	lines = append(lines,
		"",
		"Per 100g:",
		fmt.Sprintf("  Calories: %.0f kcal", n.CaloriesKcal),
		fmt.Sprintf("  Protein: %.1f g", n.ProteinsG),
		fmt.Sprintf("  Fat: %.1f g", n.FatsG),
		fmt.Sprintf("  Carbs: %.1f g", n.CarbsG),
		fmt.Sprintf("  Sugars: %.1f g", n.SugarsG),
		fmt.Sprintf("  Fiber: %.1f g", n.FiberG),
		fmt.Sprintf("  Salt: %.2f g", n.SaltG),
	)
	if p.ServingSize != "" {
		lines = append(lines, "  Serving: "+p.ServingSize)
	}
	return strings.Join(lines, "\n")
}

func formatComparison(products []*model.Product) string {
	names := make([]string, len(products))
	for i, p := range products {
		// truncate on runes so multibyte names stay valid UTF-8
		name := []rune(p.Name)
		if len(name) > 25 {
			name = name[:25]
		}
		names[i] = string(name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "| Value | %s |\n", strings.Join(names, " | "))
	b.WriteString("| --- |")
	for range products {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	row := func(label string, value func(*model.Product) string) {
		cells := make([]string, len(products))
		for i, p := range products {
			cells[i] = value(p)
		}
		fmt.Fprintf(&b, "| %s | %s |\n", label, strings.Join(cells, " | "))
	}

	row("Calories (kcal)", func(p *model.Product) string { return fmt.Sprintf("%.0f", p.Nutrients.CaloriesKcal) })
	row("Protein (g)", func(p *model.Product) string { return fmt.Sprintf("%.1f", p.Nutrients.ProteinsG) })
	row("Fat (g)", func(p *model.Product) string { return fmt.Sprintf("%.1f", p.Nutrients.FatsG) })
	row("Carbs (g)", func(p *model.Product) string { return fmt.Sprintf("%.1f", p.Nutrients.CarbsG) })
	row("Sugars (g)", func(p *model.Product) string { return fmt.Sprintf("%.1f", p.Nutrients.SugarsG) })
	row("Fiber (g)", func(p *model.Product) string { return fmt.Sprintf("%.1f", p.Nutrients.FiberG) })
	row("Nutri-Score", func(p *model.Product) string {
		if p.NutritionGrade == "" {
			return "-"
		}
		return strings.ToUpper(p.NutritionGrade)
	})

	return strings.TrimRight(b.String(), "\n")
}

func formatLoggedEntry(e *model.FoodEntry) string {
	return fmt.Sprintf("Logged (ID: %d):\n  %s — %.0fg (%s)\n  %.0f kcal | P:%.1f F:%.1f C:%.1f",
		e.ID, e.ProductName, e.AmountG, e.MealType,
		e.CaloriesKcal, e.ProteinsG, e.FatsG, e.CarbsG)
}

func formatCustomProductAdded(id int64, p *model.CustomProduct) string {
	brand := ""
	if p.Brand != "" {
		brand = fmt.Sprintf(" (%s)", p.Brand)
	}
	serving := ""
	if p.ServingG > 0 {
		serving = fmt.Sprintf(" | serving: %.0fg", p.ServingG)
	}
	return fmt.Sprintf("Added product #%d: %s%s\n  Per 100g: %.0f kcal | P:%.1f F:%.1f C:%.1f%s",
		id, p.Name, brand,
		p.CaloriesKcal100g, p.ProteinsG100g, p.FatsG100g, p.CarbsG100g, serving)
}

func formatCustomProducts(products []*model.CustomProduct) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Custom products (%d):\n\n", len(products))
	for _, p := range products {
		brand := ""
		if p.Brand != "" {
			brand = fmt.Sprintf(" (%s)", p.Brand)
		}
		serving := ""
		if p.ServingG > 0 {
			serving = fmt.Sprintf(" | serving: %.0fg", p.ServingG)
		}
		fmt.Fprintf(&b, "#%d. **%s**%s\n   Per 100g: %.0f kcal | P:%.1f F:%.1f C:%.1f%s\n\n",
			p.ID, p.Name, brand,
			p.CaloriesKcal100g, p.ProteinsG100g, p.FatsG100g, p.CarbsG100g, serving)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDailySummary(s *model.DailySummary) string {
	t := s.Totals
	lines := []string{
		"# Daily summary: " + s.Date,
		"",
		fmt.Sprintf("Calories: **%.0f kcal**", t.CaloriesKcal),
		fmt.Sprintf("Protein: **%.1f g**", t.ProteinsG),
		fmt.Sprintf("Fat: **%.1f g**", t.FatsG),
		fmt.Sprintf("Carbs: **%.1f g**", t.CarbsG),
		fmt.Sprintf("Sugars: %.1f g", t.SugarsG),
		fmt.Sprintf("Fiber: %.1f g", t.FiberG),
		"",
	}

	byMeal := map[model.MealType][]*model.FoodEntry{}
	for _, e := range s.Entries {
		byMeal[e.MealType] = append(byMeal[e.MealType], e)
	}
	for _, meal := range mealOrder {
		entries := byMeal[meal]
		if len(entries) == 0 {
			continue
		}
		var mealCal float64
		for _, e := range entries {
			mealCal += e.CaloriesKcal
		}
		lines = append(lines, fmt.Sprintf("### %s (%.0f kcal)", mealLabel(meal), mealCal))
		for _, e := range entries {
			lines = append(lines, fmt.Sprintf("- [#%d] %s (%.0fg) — %.0f kcal | P:%.1f F:%.1f C:%.1f",
				e.ID, e.ProductName, e.AmountG,
				e.CaloriesKcal, e.ProteinsG, e.FatsG, e.CarbsG))
		}
		lines = append(lines, "")
	}

	// Legacy rows may carry meal types outside the canonical four; the
	// store sorts them last and they render as their own groups.
	known := map[model.MealType]bool{
		model.MealBreakfast: true, model.MealLunch: true,
		model.MealDinner: true, model.MealSnack: true,
	}
	for _, e := range s.Entries {
		if known[e.MealType] {
			continue
		}
		lines = append(lines, fmt.Sprintf("- [#%d] %s (%s, %.0fg) — %.0f kcal",
			e.ID, e.ProductName, e.MealType, e.AmountG, e.CaloriesKcal))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func formatWeeklySummary(w *model.WeeklySummary) string {
	avg := w.Average
	lines := []string{
		"# Weekly summary (last 7 days)",
		fmt.Sprintf("Days with entries: %d/7", w.ActiveDays),
		"",
		"Daily average:",
		fmt.Sprintf("  Calories: **%.0f kcal**", avg.CaloriesKcal),
		fmt.Sprintf("  Protein: **%.1f g**", avg.ProteinsG),
		fmt.Sprintf("  Fat: **%.1f g**", avg.FatsG),
		fmt.Sprintf("  Carbs: **%.1f g**", avg.CarbsG),
		fmt.Sprintf("  Sugars: %.1f g", avg.SugarsG),
		fmt.Sprintf("  Fiber: %.1f g", avg.FiberG),
		"",
		"Day by day:",
	}

	// Days is today-first; render oldest first.
	for i := len(w.Days) - 1; i >= 0; i-- {
		d := w.Days[i]
		if d.Active() {
			lines = append(lines, fmt.Sprintf("  %s: %.0f kcal | P:%.0f F:%.0f C:%.0f",
				d.Date, d.Totals.CaloriesKcal, d.Totals.ProteinsG, d.Totals.FatsG, d.Totals.CarbsG))
		} else {
			lines = append(lines, fmt.Sprintf("  %s: — no entries", d.Date))
		}
	}

	if w.Trend != nil {
		var trend string
		switch w.Trend.Direction {
		case model.TrendStable:
			trend = "stable"
		case model.TrendIncrease:
			trend = fmt.Sprintf("increase +%.0f kcal", w.Trend.DiffKcal)
		case model.TrendDecrease:
			trend = fmt.Sprintf("decrease %.0f kcal", w.Trend.DiffKcal)
		}
		lines = append(lines, "", "Calorie trend: "+trend)
	}
	return strings.Join(lines, "\n")
}

func mealLabel(m model.MealType) string {
	switch m {
	case model.MealBreakfast:
		return "Breakfast"
	case model.MealLunch:
		return "Lunch"
	case model.MealDinner:
		return "Dinner"
	case model.MealSnack:
		return "Snack"
	default:
		return string(m)
	}
}
