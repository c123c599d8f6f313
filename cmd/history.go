package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cargofleet/core/allocation/logging"
)

var (
	historyVehicle string
	historyClient  string
	historySince   time.Duration
	historyJSON    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the allocation run log",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyVehicle, "vehicle", "", "only runs that loaded this vehicle")
	historyCmd.Flags().StringVar(&historyClient, "client", "", "only runs that involved this client")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only runs newer than this duration, e.g. 24h")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := logging.Open(cfg.Logging.Options())
	if err != nil {
		return fmt.Errorf("run log: %w", err)
	}
	if store == nil {
		return fmt.Errorf("run log disabled")
	}
	defer store.Close()

	q := logging.LogQuery{VehicleID: historyVehicle, ClientID: historyClient}
	if historySince > 0 {
		q.Start = time.Now().Add(-historySince)
	}
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	out := cmd.OutOrStdout()
	if historyJSON {
		return printJSON(out, recs)
	}
	for _, r := range recs {
		if r.Skipped != "" {
			fmt.Fprintf(out, "%s %s skipped: %s\n", r.Timestamp.Format(time.RFC3339), r.RunID, r.Skipped)
			continue
		}
		fmt.Fprintf(out, "%s %s placed %d/%d, load %.1f%%\n",
			r.Timestamp.Format(time.RFC3339), r.RunID,
			r.Stats.DistributedCount, r.Stats.TotalClients, r.Stats.LoadPercentage)
	}
	return nil
}
