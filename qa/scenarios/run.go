package scenarios

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/fleet"
	"github.com/kilianp07/cargofleet/infra/logger"
	"github.com/kilianp07/cargofleet/infra/metrics"
	"github.com/kilianp07/cargofleet/infra/mqtt"
	"github.com/kilianp07/cargofleet/internal/eventbus"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	pub := mqtt.NewMockPublisher()
	bus := eventbus.New()

	fr := fleet.NewRegistry(sc.Name, logger.NopLogger{})
	regErrors := 0
	for _, vd := range sc.Vehicles {
		v, err := vd.ToModel()
		if err == nil {
			err = fr.RegisterVehicle(v)
		}
		if err != nil {
			regErrors++
		}
	}
	for _, cd := range sc.Clients {
		c, err := cd.ToModel()
		if err == nil {
			err = fr.RegisterClient(c)
		}
		if err != nil {
			regErrors++
		}
	}
	if regErrors != sc.Expected.RegistrationErrors {
		t.Errorf("registration errors = %d, want %d", regErrors, sc.Expected.RegistrationErrors)
	}
	if got := len(fr.Vehicles()); got != sc.Expected.Vehicles {
		t.Errorf("vehicles = %d, want %d", got, sc.Expected.Vehicles)
	}
	if got := len(fr.Clients()); got != sc.Expected.Clients {
		t.Errorf("clients = %d, want %d", got, sc.Expected.Clients)
	}

	mgr, err := allocation.NewManager(fr, allocation.FirstFit{}, sink, bus, logger.NopLogger{})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	defer func() { _ = mgr.Close() }()
	mgr.SetPublisher(pub)
	mgr.SetResetBeforeRun(sc.ResetBeforeRun)

	var rep allocation.Report
	for i := 0; i < sc.Runs; i++ {
		rep, err = mgr.Run(context.Background())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if rep.Empty() != sc.Expected.Skipped {
		t.Fatalf("skipped = %q, want skipped=%v", rep.Skipped, sc.Expected.Skipped)
	}
	if len(rep.Distributed) != len(sc.Expected.Distributed) {
		t.Fatalf("distributed = %+v, want %+v", rep.Distributed, sc.Expected.Distributed)
	}
	for i, want := range sc.Expected.Distributed {
		got := rep.Distributed[i]
		if got.ClientID != want.Client || got.VehicleID != want.Vehicle {
			t.Errorf("placement %d = %s->%s, want %s->%s", i, got.ClientID, got.VehicleID, want.Client, want.Vehicle)
		}
	}
	if len(rep.NotDistributed) != len(sc.Expected.NotDistributed) {
		t.Fatalf("not distributed = %+v, want %v", rep.NotDistributed, sc.Expected.NotDistributed)
	}
	for i, want := range sc.Expected.NotDistributed {
		if got := rep.NotDistributed[i].ClientID; got != want {
			t.Errorf("rejection %d = %s, want %s", i, got, want)
		}
	}
	if rep.Stats.VehiclesUsed != sc.Expected.VehiclesUsed {
		t.Errorf("vehicles used = %d, want %d", rep.Stats.VehiclesUsed, sc.Expected.VehiclesUsed)
	}
	if math.Abs(rep.Stats.LoadPercentage-sc.Expected.LoadPercentage) > 1e-9 {
		t.Errorf("load = %v, want %v", rep.Stats.LoadPercentage, sc.Expected.LoadPercentage)
	}

	if got := len(pub.Published()); got != sc.Runs {
		t.Errorf("published = %d, want %d", got, sc.Runs)
	}
	var published allocation.Report
	if err := json.Unmarshal(pub.Reports[rep.RunID], &published); err != nil {
		t.Fatalf("decode published report: %v", err)
	}
	if published.Stats != rep.Stats {
		t.Errorf("published stats = %+v, want %+v", published.Stats, rep.Stats)
	}

	if !sc.Expected.Skipped {
		if got := gaugeValue(t, reg, "fleet_load_percentage"); math.Abs(got-sc.Expected.LoadPercentage) > 1e-9 {
			t.Errorf("fleet_load_percentage = %v, want %v", got, sc.Expected.LoadPercentage)
		}
	}
}

func gaugeValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name && len(f.GetMetric()) > 0 {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
