package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cargofleet/app"
	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/report"
	"github.com/kilianp07/cargofleet/pkg/export"
)

var (
	exportFormat   string
	exportOut      string
	exportAllocate bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the fleet, and optionally an allocation, to a file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (stdout when empty)")
	exportCmd.Flags().BoolVar(&exportAllocate, "allocate", false, "run an allocation first and include its report")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	return withService(func(ctx context.Context, svc *app.Service) error {
		var rep *allocation.Report
		if exportAllocate {
			r, err := svc.Allocate(ctx)
			if err != nil {
				return fmt.Errorf("allocate: %w", err)
			}
			rep = &r
		}
		snap := report.NewSnapshot(svc.Registry, rep)

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			defer f.Close()
			w = f
		}
		if err := export.Write(w, exportFormat, snap); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return nil
	})
}
