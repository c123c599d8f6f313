package report

import (
	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/fleet"
	"github.com/kilianp07/cargofleet/core/model"
)

// Snapshot is the full exportable state of a company: its entities, its
// statistics and optionally the last allocation report.
type Snapshot struct {
	Company    string             `json:"company" yaml:"company"`
	Statistics fleet.Stats        `json:"statistics" yaml:"statistics"`
	Vehicles   []VehicleRecord    `json:"vehicles" yaml:"vehicles"`
	Clients    []ClientRecord     `json:"clients" yaml:"clients"`
	Report     *allocation.Report `json:"report,omitempty" yaml:"report,omitempty"`
}

// NewSnapshot reads the registry under its exclusive lock, so the records
// and statistics never show a run halfway through. rep may be nil.
func NewSnapshot(reg *fleet.Registry, rep *allocation.Report) Snapshot {
	snap := Snapshot{Company: reg.Name(), Report: rep}
	reg.Exclusive(func(vehicles []*model.Vehicle, clients []*model.Client) {
		snap.Vehicles = VehicleRecords(vehicles)
		snap.Clients = ClientRecords(clients)
		snap.Statistics = fleet.ComputeStats(snap.Company, vehicles, clients)
	})
	return snap
}
