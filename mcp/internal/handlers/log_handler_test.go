package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/offclient"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/resolver"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/services"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store/sqlite"
)

// fixedNow pins handler clocks so summaries target a known date.
func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newHandlerFixture(t *testing.T, remote http.HandlerFunc) (store.Store, *services.LogService, *services.SummaryService) {
	t.Helper()
	ts := httptest.NewServer(remote)
	t.Cleanup(ts.Close)

	st, err := sqlite.New(filepath.Join(t.TempDir(), "nutrition.db"))
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	client := offclient.New(ts.URL, "pl", 5*time.Second, zerolog.Nop())
	res := resolver.New(st.CustomProducts(), client, zerolog.Nop())
	return st,
		services.NewLogService(res, st, zerolog.Nop()),
		services.NewSummaryService(st, zerolog.Nop())
}

func callText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return tc.Text
}

func TestLogFoodTool(t *testing.T) {
	st, logSvc, _ := newHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 1, "product":
            {"code": "5900000000001", "product_name": "Serek wiejski",
             "nutriments": {"energy-kcal_100g": 97, "proteins_100g": 11}}}`))
	})

	h := NewLogHandler(logSvc, zerolog.Nop())
	h.now = fixedNow

	res, err := h.handleLogFood(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{
			"barcode_or_name": "5900000000001",
			"amount_g":        200.0,
			"meal_type":       "breakfast",
		}},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", callText(t, res))
	}
	text := callText(t, res)
	if !strings.Contains(text, "Serek wiejski") {
		t.Errorf("result missing product name: %s", text)
	}
	if !strings.Contains(text, "194") {
		t.Errorf("expected 194 kcal for 200 g, got: %s", text)
	}

	entries, err := st.FoodLog().EntriesForDate(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("EntriesForDate: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 persisted entry, got %d", len(entries))
	}
	if entries[0].CaloriesKcal != 194 {
		t.Errorf("persisted calories = %v, want 194", entries[0].CaloriesKcal)
	}
}

func TestLogFoodToolNotFoundSuggestsCustomProduct(t *testing.T) {
	_, logSvc, _ := newHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products": []}`))
	})

	h := NewLogHandler(logSvc, zerolog.Nop())
	h.now = fixedNow

	res, err := h.handleLogFood(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{
			"barcode_or_name": "zupa babci",
			"amount_g":        300.0,
		}},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if res.IsError {
		t.Fatalf("not-found should be a text reply, not a tool error")
	}
	text := callText(t, res)
	if !strings.Contains(text, "add_custom_product") {
		t.Errorf("reply should point at add_custom_product: %s", text)
	}
}

func TestLogFoodToolRejectsBadAmount(t *testing.T) {
	_, logSvc, _ := newHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": 1, "product":
            {"code": "5900000000001", "product_name": "Serek wiejski",
             "nutriments": {"energy-kcal_100g": 97}}}`))
	})

	h := NewLogHandler(logSvc, zerolog.Nop())
	h.now = fixedNow

	res, err := h.handleLogFood(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{
			"barcode_or_name": "5900000000001",
			"amount_g":        -50.0,
		}},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !res.IsError {
		t.Fatalf("negative amount must produce a tool error")
	}
}

func TestDeleteFoodEntryTool(t *testing.T) {
	st, logSvc, _ := newHandlerFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	id := mustInsertEntry(t, st, "2025-03-10", "lunch", 400)

	h := NewLogHandler(logSvc, zerolog.Nop())

	res, err := h.handleDeleteEntry(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"entry_id": float64(id)}},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !strings.Contains(callText(t, res), "Deleted") {
		t.Errorf("expected deletion confirmation, got: %s", callText(t, res))
	}

	res, err = h.handleDeleteEntry(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"entry_id": float64(id)}},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !strings.Contains(callText(t, res), "not found") {
		t.Errorf("second delete should report not found, got: %s", callText(t, res))
	}
}
