package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/notifier"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/recorder"

	"github.com/spf13/cobra"
)

var (
	eventsVehicle string
	eventsLimit   int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded pricing events, newest first",
	Long: `Query pricing event snapshots from the SQLite database.

Examples:
  pricer events
  pricer events --vehicle 1 --limit 20`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringVarP(&eventsVehicle, "vehicle", "v", "", "only events for this vehicle id")
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", recorder.DefaultListLimit, "maximum number of events")
}

func runEvents(cmd *cobra.Command, args []string) error {
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, component("recorder"))
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer rec.Close()

	events, err := rec.PricingEvents(eventsVehicle, eventsLimit)
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tVEHICLE\tSTRATEGY\tPRICE\tBASE\tCATEGORY\tDEMAND\tINVENTORY")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\t%s\t%d\t%d\n",
			e.Timestamp.Local().Format(time.DateTime), e.VehicleID, e.PricingStrategyUsed,
			notifier.FormatPrice(e.CalculatedPrice), e.BasePriceSnapshot, e.CategorySnapshot,
			e.VehicleDemandSnapshot, e.VehicleInventorySnapshot)
	}
	return w.Flush()
}
