package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/offclient"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/services"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store/sqlite"
)

func newCustomHandler(t *testing.T) *CustomProductHandler {
	t.Helper()
	st, err := sqlite.New(t.TempDir() + "/nutrition.db")
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	// The remote catalog is not exercised by these tools.
	client := offclient.New("http://127.0.0.1:0", "pl", time.Second, zerolog.Nop())
	return NewCustomProductHandler(services.NewProductService(client, st, zerolog.Nop()), zerolog.Nop())
}

func TestCustomProductLifecycle(t *testing.T) {
	h := newCustomHandler(t)
	ctx := context.Background()

	res, err := h.handleAdd(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{
			"name":               "Sałatka z kurczakiem",
			"calories_kcal_100g": 120.0,
			"proteins_g_100g":    9.5,
			"brand":              "Bistro",
			"serving_g":          350.0,
		}},
	})
	if err != nil {
		t.Fatalf("handleAdd: %v", err)
	}
	text := callText(t, res)
	if !strings.Contains(text, "Sałatka z kurczakiem") || !strings.Contains(text, "serving: 350g") {
		t.Errorf("unexpected add reply: %s", text)
	}

	res, err = h.handleList(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleList: %v", err)
	}
	text = callText(t, res)
	if !strings.Contains(text, "Custom products (1)") || !strings.Contains(text, "Bistro") {
		t.Errorf("unexpected list reply: %s", text)
	}

	res, err = h.handleDelete(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"product_id": float64(1)}},
	})
	if err != nil {
		t.Fatalf("handleDelete: %v", err)
	}
	if !strings.Contains(callText(t, res), "Deleted product #1") {
		t.Errorf("unexpected delete reply: %s", callText(t, res))
	}

	res, err = h.handleList(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleList: %v", err)
	}
	if !strings.Contains(callText(t, res), "No custom products yet") {
		t.Errorf("catalog should be empty: %s", callText(t, res))
	}
}

func TestAddCustomProductRequiresCalories(t *testing.T) {
	h := newCustomHandler(t)

	res, err := h.handleAdd(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"name": "Zupa"}},
	})
	if err != nil {
		t.Fatalf("handleAdd: %v", err)
	}
	if !res.IsError {
		t.Fatalf("missing calories_kcal_100g must produce a tool error")
	}
}

func TestDeleteCustomProductMissingID(t *testing.T) {
	h := newCustomHandler(t)

	res, err := h.handleDelete(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: map[string]any{"product_id": float64(42)}},
	})
	if err != nil {
		t.Fatalf("handleDelete: %v", err)
	}
	if res.IsError {
		t.Fatalf("missing id is a text reply, not a tool error")
	}
	if !strings.Contains(callText(t, res), "Product #42 not found") {
		t.Errorf("unexpected reply: %s", callText(t, res))
	}
}
