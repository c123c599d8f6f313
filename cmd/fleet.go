package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cargofleet/app"
	"github.com/kilianp07/cargofleet/core/report"
	"github.com/kilianp07/cargofleet/infra/logger"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured vehicles and clients",
	RunE:  runFleetLs,
}

var fleetStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show fleet capacity statistics",
	RunE:  runFleetStats,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd, fleetStatsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := app.BuildRegistry(cfg, logger.New("fleet"))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	out := cmd.OutOrStdout()
	for _, v := range report.VehicleRecords(reg.Vehicles()) {
		fmt.Fprintln(out, v.String())
	}
	for _, c := range report.ClientRecords(reg.Clients()) {
		fmt.Fprintln(out, c.String())
	}
	return nil
}

func runFleetStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := app.BuildRegistry(cfg, logger.New("fleet"))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	return printLines(cmd.OutOrStdout(), report.FleetLines(reg.Statistics()))
}
