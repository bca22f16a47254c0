package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/services"
)

// LogHandler exposes log_food and delete_food_entry.
type LogHandler struct {
	logSvc *services.LogService
	now    func() time.Time
	log    zerolog.Logger
}

func NewLogHandler(svc *services.LogService, log zerolog.Logger) *LogHandler {
	return &LogHandler{logSvc: svc, now: time.Now, log: log}
}

// RegisterTools registers the food-log tools.
func (h *LogHandler) RegisterTools(s *server.MCPServer) error {
	logFood := mcp.NewTool("log_food",
		mcp.WithDescription("Log a meal in the nutrition diary. Accepts a barcode or a product name; custom products are checked first, then OpenFoodFacts."),
		mcp.WithString("barcode_or_name", mcp.Required(), mcp.Description("Product barcode OR name to search for")),
		mcp.WithNumber("amount_g", mcp.Required(), mcp.Description("Amount eaten in grams")),
		mcp.WithString("meal_type", mcp.Description("Meal type: breakfast, lunch, dinner or snack (default snack)")),
	)
	s.AddTool(logFood, h.handleLogFood)

	deleteEntry := mcp.NewTool("delete_food_entry",
		mcp.WithDescription("Delete an entry from the nutrition diary."),
		mcp.WithNumber("entry_id", mcp.Required(), mcp.Description("Entry id to delete (shown in the daily summary)")),
	)
	s.AddTool(deleteEntry, h.handleDeleteEntry)

	return nil
}

func (h *LogHandler) handleLogFood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := req.RequireString("barcode_or_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	amountG, err := req.RequireFloat("amount_g")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mealType := req.GetString("meal_type", string(model.MealSnack))

	today := h.now().Format(services.DateLayout)
	start := time.Now()
	entry, err := h.logSvc.LogFood(ctx, identifier, amountG, mealType, today)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return mcp.NewToolResultText(fmt.Sprintf(
				"No product found for %q. Add it with add_custom_product.", identifier)), nil
		case errors.Is(err, model.ErrInvalidAmount), errors.Is(err, model.ErrInvalidMealType):
			return mcp.NewToolResultError(err.Error()), nil
		default:
			h.log.Error().Err(err).Str("identifier", identifier).Msg("log_food failed")
			return mcp.NewToolResultError(fmt.Sprintf("failed to log food: %v", err)), nil
		}
	}
	h.log.Debug().Int64("entry_id", entry.ID).Dur("elapsed", time.Since(start)).Msg("log_food completed")
	return mcp.NewToolResultText(formatLoggedEntry(entry)), nil
}

func (h *LogHandler) handleDeleteEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("entry_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	deleted, err := h.logSvc.DeleteEntry(ctx, int64(id))
	if err != nil {
		h.log.Error().Err(err).Int("entry_id", id).Msg("delete_food_entry failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete entry: %v", err)), nil
	}
	if !deleted {
		return mcp.NewToolResultText(fmt.Sprintf("Entry #%d not found.", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted entry #%d.", id)), nil
}
