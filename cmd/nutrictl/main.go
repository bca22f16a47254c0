// nutrictl is a small CLI over the same core the MCP server uses, handy for
// logging meals and checking summaries without an MCP host.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/config"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/factory"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/logger"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/model"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/offclient"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/resolver"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/services"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/store"
)

type app struct {
	store     store.Store
	logSvc    *services.LogService
	summaries *services.SummaryService
}

func newApp() (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	// CLI output is the result text; keep log noise down.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log := logger.New("nutrictl")

	st, err := factory.NewStore(cfg)
	if err != nil {
		return nil, err
	}
	remote := offclient.New(cfg.BaseURL, cfg.Locale, cfg.LookupTimeout, log)
	res := resolver.New(st.CustomProducts(), remote, log)
	return &app{
		store:     st,
		logSvc:    services.NewLogService(res, st, log),
		summaries: services.NewSummaryService(st, log),
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "nutrictl",
		Short: "Food diary CLI over the OpenFoodFacts nutrition tracker",
	}

	logCmd := &cobra.Command{
		Use:   "log <barcode-or-name> <amount-g>",
		Short: "Log a meal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			meal, _ := cmd.Flags().GetString("meal")
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			today := time.Now().Format(services.DateLayout)
			entry, err := a.logSvc.LogFood(context.Background(), args[0], amount, meal, today)
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return fmt.Errorf("no product found for %q", args[0])
				}
				return err
			}
			fmt.Printf("Logged #%d: %s — %.0fg (%s), %.0f kcal\n",
				entry.ID, entry.ProductName, entry.AmountG, entry.MealType, entry.CaloriesKcal)
			return nil
		},
	}
	logCmd.Flags().StringP("meal", "m", "snack", "Meal type: breakfast|lunch|dinner|snack")
	rootCmd.AddCommand(logCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete a food-log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry id %q", args[0])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			deleted, err := a.logSvc.DeleteEntry(context.Background(), id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Printf("Entry #%d not found\n", id)
				return nil
			}
			fmt.Printf("Deleted entry #%d\n", id)
			return nil
		},
	}
	rootCmd.AddCommand(deleteCmd)

	dayCmd := &cobra.Command{
		Use:   "day [date]",
		Short: "Daily summary (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().Format(services.DateLayout)
			if len(args) == 1 {
				date = args[0]
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			s, err := a.summaries.Daily(context.Background(), date)
			if err != nil {
				return err
			}
			if !s.Active() {
				fmt.Printf("No entries for %s\n", date)
				return nil
			}
			fmt.Printf("%s: %.0f kcal | P:%.1f F:%.1f C:%.1f (%d entries)\n",
				s.Date, s.Totals.CaloriesKcal, s.Totals.ProteinsG, s.Totals.FatsG,
				s.Totals.CarbsG, len(s.Entries))
			for _, e := range s.Entries {
				fmt.Printf("  [#%d] %-10s %s (%.0fg) — %.0f kcal\n",
					e.ID, e.MealType, e.ProductName, e.AmountG, e.CaloriesKcal)
			}
			return nil
		},
	}
	rootCmd.AddCommand(dayCmd)

	weekCmd := &cobra.Command{
		Use:   "week",
		Short: "Rolling 7-day summary with calorie trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			today := time.Now().Format(services.DateLayout)
			w, err := a.summaries.Weekly(context.Background(), today)
			if err != nil {
				if errors.Is(err, model.ErrNoData) {
					fmt.Println("No entries in the last 7 days")
					return nil
				}
				return err
			}
			fmt.Printf("Active days: %d/7, avg %.0f kcal/day\n", w.ActiveDays, w.Average.CaloriesKcal)
			for i := len(w.Days) - 1; i >= 0; i-- {
				d := w.Days[i]
				if d.Active() {
					fmt.Printf("  %s: %.0f kcal\n", d.Date, d.Totals.CaloriesKcal)
				} else {
					fmt.Printf("  %s: -\n", d.Date)
				}
			}
			if w.Trend != nil {
				fmt.Printf("Trend: %s (%+.0f kcal)\n", w.Trend.Direction, w.Trend.DiffKcal)
			}
			return nil
		},
	}
	rootCmd.AddCommand(weekCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
