package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

func mustInsertEntry(t *testing.T, st store.Store, date, meal string, kcal float64) int64 {
	t.Helper()
	e := &model.FoodEntry{
		Date:        date,
		MealType:    model.MealType(meal),
		ProductName: "test product",
		AmountG:     100,
	}
	e.CaloriesKcal = kcal
	e.ProteinsG = kcal / 10
	id, err := st.FoodLog().Insert(context.Background(), e)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return id
}

func noRemote(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusInternalServerError)
}

func TestDailySummaryTool(t *testing.T) {
	st, _, summarySvc := newHandlerFixture(t, noRemote)
	mustInsertEntry(t, st, "2025-03-10", "breakfast", 320)
	mustInsertEntry(t, st, "2025-03-10", "dinner", 600)

	h := NewSummaryHandler(summarySvc, zerolog.Nop())
	h.now = fixedNow

	res, err := h.handleDaily(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"target_date": "today"}},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	text := callText(t, res)
	if !strings.Contains(text, "2025-03-10") {
		t.Errorf("summary missing date: %s", text)
	}
	if !strings.Contains(text, "920") {
		t.Errorf("expected total 920 kcal, got: %s", text)
	}
	if breakfast, dinner := strings.Index(text, "Breakfast"), strings.Index(text, "Dinner"); breakfast < 0 || dinner < 0 || breakfast > dinner {
		t.Errorf("meals out of order: %s", text)
	}
}

func TestDailySummaryToolEmptyDay(t *testing.T) {
	_, _, summarySvc := newHandlerFixture(t, noRemote)

	h := NewSummaryHandler(summarySvc, zerolog.Nop())
	h.now = fixedNow

	res, err := h.handleDaily(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"target_date": "2025-03-01"}},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("empty day is not an error")
	}
	if !strings.Contains(callText(t, res), "No entries for 2025-03-01") {
		t.Errorf("unexpected reply: %s", callText(t, res))
	}
}

func TestDailySummaryToolRejectsBadDate(t *testing.T) {
	_, _, summarySvc := newHandlerFixture(t, noRemote)

	h := NewSummaryHandler(summarySvc, zerolog.Nop())
	h.now = fixedNow

	res, err := h.handleDaily(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"target_date": "10.03.2025"}},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("malformed date must produce a tool error")
	}
}

func TestWeeklySummaryTool(t *testing.T) {
	st, _, summarySvc := newHandlerFixture(t, noRemote)
	mustInsertEntry(t, st, "2025-03-10", "lunch", 700)
	mustInsertEntry(t, st, "2025-03-05", "lunch", 500)

	h := NewSummaryHandler(summarySvc, zerolog.Nop())
	h.now = fixedNow

	res, err := h.handleWeekly(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	text := callText(t, res)
	if !strings.Contains(text, "Days with entries: 2/7") {
		t.Errorf("active day count wrong: %s", text)
	}
	// Average over active days only: (700+500)/2.
	if !strings.Contains(text, "600") {
		t.Errorf("expected 600 kcal average, got: %s", text)
	}
}

func TestWeeklySummaryToolNoData(t *testing.T) {
	_, _, summarySvc := newHandlerFixture(t, noRemote)

	h := NewSummaryHandler(summarySvc, zerolog.Nop())
	h.now = fixedNow

	res, err := h.handleWeekly(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("empty week is a text reply, not a tool error")
	}
	if !strings.Contains(callText(t, res), "No entries in the last 7 days") {
		t.Errorf("unexpected reply: %s", callText(t, res))
	}
}
