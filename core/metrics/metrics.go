package metrics

import "time"

// AllocationRun summarises one allocator run for observability purposes.
type AllocationRun struct {
	RunID             string
	Company           string
	Time              time.Time
	Duration          time.Duration
	Skipped           bool
	TotalClients      int
	Distributed       int
	NotDistributed    int
	VIPDistributed    int
	VIPNotDistributed int
	VehiclesUsed      int
	TotalVehicles     int
	LoadPercentage    float64
}

// MetricsSink records allocation runs.
type MetricsSink interface {
	RecordAllocation(run AllocationRun) error
}

// VehicleLoad is a snapshot of a vehicle taken right after a run.
type VehicleLoad struct {
	VehicleID string
	Kind      string
	Capacity  float64
	Load      float64
	Clients   int
	Time      time.Time
}

// VehicleLoadRecorder is implemented by sinks able to record per-vehicle
// load snapshots.
type VehicleLoadRecorder interface {
	RecordVehicleLoads(loads []VehicleLoad) error
}

// Placement is the outcome for one client of a run.
type Placement struct {
	RunID     string
	ClientID  string
	VIP       bool
	Weight    float64
	VehicleID string
	Placed    bool
	Reason    string
	Time      time.Time
}

// PlacementRecorder is implemented by sinks recording per-client outcomes.
type PlacementRecorder interface {
	RecordPlacement(p Placement) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAllocation(AllocationRun) error   { return nil }
func (NopSink) RecordVehicleLoads([]VehicleLoad) error { return nil }
func (NopSink) RecordPlacement(Placement) error        { return nil }
