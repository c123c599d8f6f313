package allocation

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/cargofleet/core/model"
)

// FirstFit is the greedy VIP-first, first-fit strategy.
type FirstFit struct{}

// Allocate runs both tiers and fills in the statistics. With no clients or
// no vehicles it returns a skipped report and touches nothing.
func (FirstFit) Allocate(vehicles []*model.Vehicle, clients []*model.Client) Report {
	switch {
	case len(clients) == 0:
		return skipped(SkipNoClients)
	case len(vehicles) == 0:
		return skipped(SkipNoVehicles)
	}

	vip, regular := orderClients(clients)
	order := orderVehicles(vehicles)

	rep := Report{
		Distributed:    make([]Assignment, 0, len(clients)),
		NotDistributed: []Rejection{},
		Usage:          make(map[string][]string, len(order)),
		VehicleOrder:   make([]string, 0, len(order)),
	}
	for _, v := range order {
		rep.Usage[v.ID()] = []string{}
		rep.VehicleOrder = append(rep.VehicleOrder, v.ID())
	}

	place(&rep, vip, order, ReasonNoSuitableVehicle)
	place(&rep, regular, order, ReasonNoRoom)

	rep.Stats = computeStats(vehicles, len(clients), rep)
	return rep
}

// skipped returns a no-op report whose collections are empty rather than nil,
// so encoded reports always carry [] and {}.
func skipped(reason string) Report {
	return Report{
		Skipped:        reason,
		Distributed:    []Assignment{},
		NotDistributed: []Rejection{},
		Usage:          map[string][]string{},
		VehicleOrder:   []string{},
	}
}

// place tries each client against the vehicles in order and stops at the
// first vehicle that accepts the whole cargo.
func place(rep *Report, clients []*model.Client, vehicles []*model.Vehicle, reason string) {
	for _, c := range clients {
		placed := false
		for _, v := range vehicles {
			if !v.LoadCargo(c) {
				continue
			}
			rep.Distributed = append(rep.Distributed, Assignment{
				ClientID:   c.ID(),
				ClientName: c.Name(),
				VIP:        c.VIP(),
				VehicleID:  v.ID(),
				Weight:     c.CargoWeight(),
			})
			rep.Usage[v.ID()] = append(rep.Usage[v.ID()], c.Name())
			placed = true
			break
		}
		if !placed {
			rep.NotDistributed = append(rep.NotDistributed, Rejection{
				ClientID:   c.ID(),
				ClientName: c.Name(),
				VIP:        c.VIP(),
				Weight:     c.CargoWeight(),
				Reason:     reason,
			})
		}
	}
}

// orderClients splits clients into the VIP and regular tiers, each sorted
// by descending cargo weight with registration order kept on ties.
func orderClients(clients []*model.Client) (vip, regular []*model.Client) {
	for _, c := range clients {
		if c.VIP() {
			vip = append(vip, c)
		} else {
			regular = append(regular, c)
		}
	}
	byWeight := func(a, b *model.Client) int {
		return cmp.Compare(b.CargoWeight(), a.CargoWeight())
	}
	slices.SortStableFunc(vip, byWeight)
	slices.SortStableFunc(regular, byWeight)
	return vip, regular
}

// orderVehicles returns the vehicles by descending capacity, registration
// order kept on ties. The input slice is not modified.
func orderVehicles(vehicles []*model.Vehicle) []*model.Vehicle {
	out := slices.Clone(vehicles)
	slices.SortStableFunc(out, func(a, b *model.Vehicle) int {
		return cmp.Compare(b.Capacity(), a.Capacity())
	})
	return out
}

func computeStats(vehicles []*model.Vehicle, totalClients int, rep Report) Stats {
	caps := make([]float64, len(vehicles))
	loads := make([]float64, len(vehicles))
	used := 0
	for i, v := range vehicles {
		caps[i] = v.Capacity()
		loads[i] = v.Load()
		if v.Load() > 0 {
			used++
		}
	}
	st := Stats{
		TotalClients:        totalClients,
		DistributedCount:    len(rep.Distributed),
		NotDistributedCount: len(rep.NotDistributed),
		VehiclesUsed:        used,
		TotalVehicles:       len(vehicles),
	}
	if total := floats.Sum(caps); total > 0 {
		st.LoadPercentage = floats.Sum(loads) / total * 100
	}
	return st
}
