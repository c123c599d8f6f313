package allocation

import (
	"time"

	"github.com/kilianp07/cargofleet/core/model"
)

// Reasons recorded for clients that could not be placed.
const (
	ReasonNoSuitableVehicle = "no suitable vehicle"
	ReasonNoRoom            = "no room"
)

// Reasons recorded when a run does not attempt any allocation.
const (
	SkipNoClients  = "no clients to distribute"
	SkipNoVehicles = "no vehicles to distribute to"
)

// Assignment records a client loaded into a vehicle.
type Assignment struct {
	ClientID   string  `json:"client_id" yaml:"client_id"`
	ClientName string  `json:"client_name" yaml:"client_name"`
	VIP        bool    `json:"vip" yaml:"vip"`
	VehicleID  string  `json:"vehicle_id" yaml:"vehicle_id"`
	Weight     float64 `json:"weight" yaml:"weight"`
}

// Rejection records a client that received no vehicle.
type Rejection struct {
	ClientID   string  `json:"client_id" yaml:"client_id"`
	ClientName string  `json:"client_name" yaml:"client_name"`
	VIP        bool    `json:"vip" yaml:"vip"`
	Weight     float64 `json:"weight" yaml:"weight"`
	Reason     string  `json:"reason" yaml:"reason"`
}

// Stats aggregates one run. LoadPercentage covers every vehicle of the
// fleet, including load left over from earlier runs.
type Stats struct {
	TotalClients        int     `json:"total_clients" yaml:"total_clients"`
	DistributedCount    int     `json:"distributed_count" yaml:"distributed_count"`
	NotDistributedCount int     `json:"not_distributed_count" yaml:"not_distributed_count"`
	VehiclesUsed        int     `json:"vehicles_used" yaml:"vehicles_used"`
	TotalVehicles       int     `json:"total_vehicles" yaml:"total_vehicles"`
	LoadPercentage      float64 `json:"load_percentage" yaml:"load_percentage"`
}

// Report is the outcome of one run. Every client of the run appears in
// exactly one of Distributed and NotDistributed.
type Report struct {
	RunID     string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	// Skipped is set when no allocation was attempted.
	Skipped        string       `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Distributed    []Assignment `json:"distributed" yaml:"distributed"`
	NotDistributed []Rejection  `json:"not_distributed" yaml:"not_distributed"`
	// Usage maps vehicle ids to the names of the clients loaded in this run.
	Usage map[string][]string `json:"vehicle_usage" yaml:"vehicle_usage"`
	// VehicleOrder lists the vehicle ids in the order they were tried.
	VehicleOrder []string `json:"vehicle_order" yaml:"vehicle_order"`
	Stats        Stats    `json:"statistics" yaml:"statistics"`
}

// Empty reports whether the run was a no-op.
func (r Report) Empty() bool { return r.Skipped != "" }

// VIPCounts returns the distributed and not distributed VIP clients.
func (r Report) VIPCounts() (distributed, notDistributed int) {
	for _, a := range r.Distributed {
		if a.VIP {
			distributed++
		}
	}
	for _, n := range r.NotDistributed {
		if n.VIP {
			notDistributed++
		}
	}
	return distributed, notDistributed
}

// Strategy assigns clients to vehicles, loading the vehicles as a side
// effect.
type Strategy interface {
	Allocate(vehicles []*model.Vehicle, clients []*model.Client) Report
}

// Config defines allocation settings.
type Config struct {
	// Strategy names the registered strategy to run; empty selects first_fit.
	Strategy string `json:"strategy"`
	// ResetBeforeRun unloads every vehicle before each run, so repeated runs
	// start from an empty fleet instead of topping up remaining capacity.
	ResetBeforeRun bool `json:"reset_before_run"`
}
