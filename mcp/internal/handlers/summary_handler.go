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

// SummaryHandler exposes get_daily_summary and get_weekly_summary.
type SummaryHandler struct {
	summaries *services.SummaryService
	now       func() time.Time
	log       zerolog.Logger
}

func NewSummaryHandler(s *services.SummaryService, log zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{summaries: s, now: time.Now, log: log}
}

// RegisterTools registers the summary tools.
func (h *SummaryHandler) RegisterTools(s *server.MCPServer) error {
	daily := mcp.NewTool("get_daily_summary",
		mcp.WithDescription("Daily nutrition balance: calories, macros and the list of meals."),
		mcp.WithString("target_date", mcp.Description("Date as YYYY-MM-DD or \"today\" (default today)")),
	)
	s.AddTool(daily, h.handleDaily)

	weekly := mcp.NewTool("get_weekly_summary",
		mcp.WithDescription("Average nutrition over the last 7 days plus a calorie trend."),
	)
	s.AddTool(weekly, h.handleWeekly)

	return nil
}

func (h *SummaryHandler) handleDaily(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targetDate := req.GetString("target_date", "today")
	if targetDate == "today" || targetDate == "" {
		targetDate = h.now().Format(services.DateLayout)
	}
	if _, err := time.Parse(services.DateLayout, targetDate); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", targetDate)), nil
	}

	summary, err := h.summaries.Daily(ctx, targetDate)
	if err != nil {
		h.log.Error().Err(err).Str("date", targetDate).Msg("get_daily_summary failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to read summary: %v", err)), nil
	}
	if !summary.Active() {
		return mcp.NewToolResultText(fmt.Sprintf("No entries for %s.", targetDate)), nil
	}
	return mcp.NewToolResultText(formatDailySummary(summary)), nil
}

func (h *SummaryHandler) handleWeekly(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	today := h.now().Format(services.DateLayout)

	week, err := h.summaries.Weekly(ctx, today)
	if err != nil {
		if errors.Is(err, model.ErrNoData) {
			return mcp.NewToolResultText("No entries in the last 7 days."), nil
		}
		h.log.Error().Err(err).Msg("get_weekly_summary failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to read summary: %v", err)), nil
	}
	return mcp.NewToolResultText(formatWeeklySummary(week)), nil
}
