package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cargofleet/app"
	"github.com/kilianp07/cargofleet/config"
	"github.com/kilianp07/cargofleet/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "cargofleet",
	Short: "Cargo allocation across a company fleet",
	Long: "cargofleet loads a fleet of airplanes and vans with client cargo,\n" +
		"VIP clients first, and reports who got a vehicle and who did not.",
	SilenceUsage: true,
	RunE:         runAllocate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json); built-in fleet when empty")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// withService builds the service, runs fn with a signal-aware context and
// closes the service afterwards.
func withService(fn func(ctx context.Context, svc *app.Service) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	defer svc.Monitor.Recover()
	return fn(ctx, svc)
}

func printLines(w io.Writer, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
