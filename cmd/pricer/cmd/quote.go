package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/history"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/notifier"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/session"

	"github.com/spf13/cobra"
)

var (
	quoteStrategy string
	quoteJSON     bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <vehicle-id>",
	Short: "Price one vehicle against the last saved market state",
	Long: `Price one vehicle with the factors persisted by the last serve run.

An unrecognized --strategy prices as dynamic.

Examples:
  pricer quote 1
  pricer quote 2 --strategy competitive --json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().StringVarP(&quoteStrategy, "strategy", "s", "", "pricing strategy (default from config)")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "print the quote as JSON")
}

func runQuote(cmd *cobra.Command, args []string) error {
	catalog := inventory.NewCatalog(newFetcher(cfg), component("inventory"))
	if err := catalog.Refresh(cmd.Context()); err != nil {
		return err
	}

	strategy := cfg.Strategy()
	if quoteStrategy != "" {
		strategy, _ = model.ParseStrategy(quoteStrategy)
	}

	sess := session.New(newSimulator(cfg), history.NewTracker(0), catalog,
		session.WithStrategy(strategy),
		session.WithLogger(component("session")),
	)
	q, err := sess.Quote(args[0])
	if err != nil {
		return err
	}

	if quoteJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	}
	v, _ := catalog.Get(args[0])
	fmt.Printf("%d %s %s (%s)\n", v.Year, v.Make, v.Model, v.Category)
	fmt.Printf("price:    %s (%s)\n", notifier.FormatPrice(q.Price), q.Strategy)
	fmt.Printf("change:   %s %.2f%%\n", q.Change.Direction, q.Change.Percent)
	fmt.Printf("factors:  demand=%.3f seasonal=%.3f competitor=%.3f inventory=%.3f\n",
		q.Factors.DemandMultiplier, q.Factors.SeasonalAdjustment, q.Factors.CompetitorPricing, q.Factors.InventoryLevel)
	return nil
}
