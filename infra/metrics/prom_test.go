package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/cargofleet/core/metrics"
)

func TestPromSink_RecordAllocation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	run := coremetrics.AllocationRun{Distributed: 3, NotDistributed: 1, VehiclesUsed: 2, TotalVehicles: 3, LoadPercentage: 62.5}
	if err := sink.RecordAllocation(run); err != nil {
		t.Fatalf("record: %v", err)
	}
	if v := testutil.ToFloat64(sink.loadPct); v != 62.5 {
		t.Errorf("load percentage expected 62.5 got %f", v)
	}
	if v := testutil.ToFloat64(sink.vehiclesUsed); v != 2 {
		t.Errorf("vehicles used expected 2 got %f", v)
	}
	if v := testutil.ToFloat64(sink.clients.WithLabelValues("not_distributed")); v != 1 {
		t.Errorf("not distributed expected 1 got %f", v)
	}

	// a skipped run keeps the previous state
	if err := sink.RecordAllocation(coremetrics.AllocationRun{Skipped: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if v := testutil.ToFloat64(sink.loadPct); v != 62.5 {
		t.Errorf("skipped run changed load percentage to %f", v)
	}
}

func TestPromSink_VehicleLoadsAndPlacements(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	loads := []coremetrics.VehicleLoad{
		{VehicleID: "V1", Kind: "airplane", Capacity: 20, Load: 12},
		{VehicleID: "V2", Kind: "van", Capacity: 5},
	}
	if err := sink.RecordVehicleLoads(loads); err != nil {
		t.Fatalf("record: %v", err)
	}
	if v := testutil.ToFloat64(sink.vehicleLoad.WithLabelValues("V1", "airplane")); v != 12 {
		t.Errorf("V1 load expected 12 got %f", v)
	}
	if v := testutil.ToFloat64(sink.vehicleCap.WithLabelValues("V2", "van")); v != 5 {
		t.Errorf("V2 capacity expected 5 got %f", v)
	}

	_ = sink.RecordPlacement(coremetrics.Placement{VIP: true, Placed: true})
	_ = sink.RecordPlacement(coremetrics.Placement{Placed: false})
	_ = sink.RecordPlacement(coremetrics.Placement{Placed: false})
	if v := testutil.ToFloat64(sink.placements.WithLabelValues("vip", "true")); v != 1 {
		t.Errorf("vip placements expected 1 got %f", v)
	}
	if v := testutil.ToFloat64(sink.placements.WithLabelValues("regular", "false")); v != 2 {
		t.Errorf("regular rejections expected 2 got %f", v)
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	second, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	_ = second.RecordAllocation(coremetrics.AllocationRun{LoadPercentage: 10})
	if v := testutil.ToFloat64(first.loadPct); v != 10 {
		t.Errorf("collectors not shared, got %f", v)
	}
}
