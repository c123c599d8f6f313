package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cargofleet/app"
	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/report"
)

var (
	allocateJSON  bool
	serveMetrics  bool
	metricsListen string
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Run one allocation and print the report",
	RunE:  runAllocate,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, allocateCmd} {
		c.Flags().BoolVar(&allocateJSON, "json", false, "print the run summary as JSON")
		c.Flags().BoolVar(&serveMetrics, "serve-metrics", false, "keep serving /metrics and /api after the run until interrupted")
		c.Flags().StringVar(&metricsListen, "metrics-addr", "", "listen address for the HTTP surface (defaults to metrics.prometheus_addr)")
	}
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, svc *app.Service) error {
		rep, err := svc.Allocate(ctx)
		if err != nil {
			return fmt.Errorf("allocate: %w", err)
		}
		out := cmd.OutOrStdout()
		if allocateJSON {
			err = printJSON(out, report.Summarize(rep))
		} else {
			err = printReport(out, rep)
		}
		if err != nil {
			return err
		}
		if serveMetrics {
			return svc.Serve(ctx, metricsListen)
		}
		return nil
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(w io.Writer, rep allocation.Report) error {
	distributed, notDistributed := report.Lines(rep)
	sections := []struct {
		title string
		lines []string
	}{
		{"Distributed:", distributed},
		{"Not distributed:", notDistributed},
		{"Vehicles:", report.UsageLines(rep)},
		{"Statistics:", report.StatsLines(rep.Stats)},
	}
	for _, s := range sections {
		if len(s.lines) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, s.title); err != nil {
			return err
		}
		if err := printLines(w, indent(s.lines)); err != nil {
			return err
		}
	}
	return nil
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "  " + l
	}
	return out
}
