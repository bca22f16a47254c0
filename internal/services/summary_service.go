package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

// DateLayout is the calendar-day format used throughout the food log.
const DateLayout = "2006-01-02"

// stableBandKcal is the half-width of the calorie band classified as a
// stable trend.
const stableBandKcal = 50.0

// SummaryService computes daily and rolling 7-day nutrition aggregates over
// the food log.
type SummaryService struct {
	store store.Store
	log   zerolog.Logger
}

func NewSummaryService(s store.Store, log zerolog.Logger) *SummaryService {
	return &SummaryService{store: s, log: log}
}

// Daily sums all entries of one calendar day. A day without entries is a
// valid all-zero summary with an empty entry list, not an error.
func (s *SummaryService) Daily(ctx context.Context, date string) (*model.DailySummary, error) {
	entries, err := s.store.FoodLog().EntriesForDate(ctx, date)
	if err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("daily summary read failed")
		return nil, err
	}

	summary := &model.DailySummary{Date: date, Entries: entries}
	for _, e := range entries {
		summary.Totals = summary.Totals.Add(e.Totals)
	}
	return summary, nil
}

// Weekly aggregates the 7 calendar days ending today inclusive, today first.
// The average divides by active days only; when no day has an entry the
// result is model.ErrNoData. The trend compares the last 3 days against the
// 4 before them and is omitted when either window has no active day.
func (s *SummaryService) Weekly(ctx context.Context, today string) (*model.WeeklySummary, error) {
	anchor, err := time.Parse(DateLayout, today)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", today, err)
	}

	days := make([]*model.DailySummary, 0, 7)
	for i := 0; i < 7; i++ {
		date := anchor.AddDate(0, 0, -i).Format(DateLayout)
		day, err := s.Daily(ctx, date)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	week := &model.WeeklySummary{Days: days}
	var sum model.Totals
	for _, d := range days {
		if d.Active() {
			week.ActiveDays++
			sum = sum.Add(d.Totals)
		}
	}
	if week.ActiveDays == 0 {
		return nil, model.ErrNoData
	}
	week.Average = sum.Scale(1.0 / float64(week.ActiveDays))
	week.Trend = calorieTrend(days)
	return week, nil
}

// calorieTrend partitions the week into recent (today..day-2) and earlier
// (day-3..day-6) windows, each filtered to active days. Both windows need at
// least one active day for a classification.
func calorieTrend(days []*model.DailySummary) *model.CalorieTrend {
	avgRecent, okRecent := avgCalories(days[:3])
	avgEarlier, okEarlier := avgCalories(days[3:])
	if !okRecent || !okEarlier {
		return nil
	}

	diff := avgRecent - avgEarlier
	direction := model.TrendStable
	switch {
	case math.Abs(diff) < stableBandKcal:
		direction = model.TrendStable
	case diff > 0:
		direction = model.TrendIncrease
	default:
		direction = model.TrendDecrease
	}
	return &model.CalorieTrend{Direction: direction, DiffKcal: diff}
}

func avgCalories(days []*model.DailySummary) (float64, bool) {
	var sum float64
	n := 0
	for _, d := range days {
		if d.Active() {
			sum += d.Totals.CaloriesKcal
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
