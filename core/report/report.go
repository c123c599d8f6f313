// Package report derives display lines and serialisable records from the
// registry and from allocation reports. Nothing in here mutates the model.
package report

import (
	"fmt"

	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/fleet"
	"github.com/kilianp07/cargofleet/core/model"
)

// Lines renders the outcome of a run, one line per client, in processing
// order. A skipped run yields a single line in notDistributed explaining
// why.
func Lines(rep allocation.Report) (distributed, notDistributed []string) {
	if rep.Empty() {
		return nil, []string{"nothing allocated: " + rep.Skipped}
	}
	distributed = make([]string, 0, len(rep.Distributed))
	for _, a := range rep.Distributed {
		distributed = append(distributed, fmt.Sprintf("%s%s: %gt -> %s", vipPrefix(a.VIP), a.ClientName, a.Weight, a.VehicleID))
	}
	notDistributed = make([]string, 0, len(rep.NotDistributed))
	for _, r := range rep.NotDistributed {
		notDistributed = append(notDistributed, fmt.Sprintf("%s%s: %gt (%s)", vipPrefix(r.VIP), r.ClientName, r.Weight, r.Reason))
	}
	return distributed, notDistributed
}

func vipPrefix(vip bool) string {
	if vip {
		return "VIP "
	}
	return ""
}

// StatsLines renders run statistics.
func StatsLines(st allocation.Stats) []string {
	return []string{
		fmt.Sprintf("Total clients: %d", st.TotalClients),
		fmt.Sprintf("Distributed: %d", st.DistributedCount),
		fmt.Sprintf("Not distributed: %d", st.NotDistributedCount),
		fmt.Sprintf("Vehicles used: %d/%d", st.VehiclesUsed, st.TotalVehicles),
		fmt.Sprintf("Load: %.1f%%", st.LoadPercentage),
	}
}

// UsageLines lists the clients loaded into each vehicle, vehicles in the
// order the run tried them.
func UsageLines(rep allocation.Report) []string {
	out := make([]string, 0, len(rep.VehicleOrder))
	for _, id := range rep.VehicleOrder {
		names := rep.Usage[id]
		if len(names) == 0 {
			out = append(out, fmt.Sprintf("%s: empty", id))
			continue
		}
		out = append(out, fmt.Sprintf("%s: %v", id, names))
	}
	return out
}

// FleetLines renders company statistics.
func FleetLines(st fleet.Stats) []string {
	return []string{
		fmt.Sprintf("Company: %s", st.CompanyName),
		fmt.Sprintf("Vehicles: %d", st.TotalVehicles),
		fmt.Sprintf("Clients: %d (VIP %d)", st.TotalClients, st.VIPClients),
		fmt.Sprintf("Capacity: %gt total, %gt used, %gt available", st.TotalCapacity, st.UsedCapacity, st.AvailableCapacity),
		fmt.Sprintf("Utilization: %.1f%%", st.UtilizationPercentage),
	}
}

// Summary is the serialisable form of a run.
type Summary struct {
	RunID          string              `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Skipped        string              `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Distributed    []string            `json:"distributed" yaml:"distributed"`
	NotDistributed []string            `json:"not_distributed" yaml:"not_distributed"`
	VehicleUsage   map[string][]string `json:"vehicle_usage" yaml:"vehicle_usage"`
	Statistics     allocation.Stats    `json:"statistics" yaml:"statistics"`
}

// Summarize converts rep into a Summary.
func Summarize(rep allocation.Report) Summary {
	s := Summary{
		RunID:          rep.RunID,
		Skipped:        rep.Skipped,
		Distributed:    []string{},
		NotDistributed: []string{},
		VehicleUsage:   make(map[string][]string, len(rep.Usage)),
		Statistics:     rep.Stats,
	}
	if !rep.Empty() {
		s.Distributed, s.NotDistributed = Lines(rep)
	}
	for id, names := range rep.Usage {
		s.VehicleUsage[id] = append([]string{}, names...)
	}
	return s
}

// VehicleRecord is the display and export form of a vehicle. Altitude is set
// for airplanes only, Refrigerated for vans only.
type VehicleRecord struct {
	Type         string   `json:"type" yaml:"type"`
	ID           string   `json:"id" yaml:"id"`
	Capacity     float64  `json:"capacity" yaml:"capacity"`
	CurrentLoad  float64  `json:"current_load" yaml:"current_load"`
	Remaining    float64  `json:"remaining_capacity" yaml:"remaining_capacity"`
	Altitude     *float64 `json:"altitude,omitempty" yaml:"altitude,omitempty"`
	Refrigerated *bool    `json:"refrigerated,omitempty" yaml:"refrigerated,omitempty"`
	Clients      []string `json:"clients" yaml:"clients"`
}

// ClientRecord is the display and export form of a client.
type ClientRecord struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
	VIP    bool    `json:"vip" yaml:"vip"`
}

// VehicleRecords converts vehicles, keeping their order.
func VehicleRecords(vehicles []*model.Vehicle) []VehicleRecord {
	out := make([]VehicleRecord, 0, len(vehicles))
	for _, v := range vehicles {
		rec := VehicleRecord{
			Type:        v.Kind().String(),
			ID:          v.ID(),
			Capacity:    v.Capacity(),
			CurrentLoad: v.Load(),
			Remaining:   v.RemainingCapacity(),
			Clients:     []string{},
		}
		switch c := v.Capability().(type) {
		case model.Airplane:
			alt := c.MaxAltitude
			rec.Altitude = &alt
		case model.Van:
			ref := c.Refrigerated
			rec.Refrigerated = &ref
		}
		for _, cl := range v.Clients() {
			rec.Clients = append(rec.Clients, cl.Name())
		}
		out = append(out, rec)
	}
	return out
}

// ClientRecords converts clients, keeping their order.
func ClientRecords(clients []*model.Client) []ClientRecord {
	out := make([]ClientRecord, 0, len(clients))
	for _, c := range clients {
		out = append(out, ClientRecord{ID: c.ID(), Name: c.Name(), Weight: c.CargoWeight(), VIP: c.VIP()})
	}
	return out
}

// String renders the record the way the fleet listing shows it.
func (r VehicleRecord) String() string {
	s := fmt.Sprintf("%s %s: capacity %gt, loaded %gt", r.Type, r.ID, r.Capacity, r.CurrentLoad)
	if r.Altitude != nil {
		s += fmt.Sprintf(", max altitude %gm", *r.Altitude)
	}
	if r.Refrigerated != nil {
		if *r.Refrigerated {
			s += ", refrigerated"
		} else {
			s += ", not refrigerated"
		}
	}
	return s
}

func (r ClientRecord) String() string {
	tier := "regular"
	if r.VIP {
		tier = "VIP"
	}
	return fmt.Sprintf("%s %s: cargo %gt, %s", r.ID, r.Name, r.Weight, tier)
}
