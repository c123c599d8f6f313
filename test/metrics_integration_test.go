package test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/kilianp07/cargofleet/app"
	"github.com/kilianp07/cargofleet/config"
	"github.com/kilianp07/cargofleet/core/factory"
	"github.com/kilianp07/cargofleet/test/util"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestMetricsHTTPExposure(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Backend = config.BackendNone
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "prometheus"}}
	cfg.Metrics.PrometheusAddr = freeAddr(t)

	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx, "") }()

	if _, err := svc.Allocate(ctx); err != nil {
		t.Fatalf("allocate: %v", err)
	}

	waitCtx, waitCancel := context.WithTimeout(ctx, util.MetricTimeout)
	defer waitCancel()
	url := "http://" + cfg.Metrics.PrometheusAddr + "/metrics"
	if err := util.WaitForMetrics(waitCtx, url,
		"allocation_runs_total", "fleet_load_percentage", "vehicle_load_tonnes", "client_placements_total"); err != nil {
		t.Error(err)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("serve metrics: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("metrics server did not stop")
	}
}
