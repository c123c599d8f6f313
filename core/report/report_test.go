package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/fleet"
	"github.com/kilianp07/cargofleet/core/model"
)

func seeded(t *testing.T) (*fleet.Registry, allocation.Report) {
	t.Helper()
	seq := model.NewSequence()
	reg := fleet.NewRegistry("Aero-Trans", nil)
	plane, err := model.NewAirplane(20, 12000, model.WithIDSource(seq))
	require.NoError(t, err)
	van, err := model.NewVan(5, true, model.WithIDSource(seq))
	require.NoError(t, err)
	require.NoError(t, reg.RegisterVehicle(plane))
	require.NoError(t, reg.RegisterVehicle(van))
	for _, c := range []struct {
		name   string
		weight float64
		vip    bool
	}{
		{"Ivanov", 8.5, true},
		{"Petrov", 12, false},
		{"Sidorova", 3.5, true},
		{"Kuznetsov", 30, false},
	} {
		cl, err := model.NewClient(c.name, c.weight, c.vip, model.WithIDSource(seq))
		require.NoError(t, err)
		require.NoError(t, reg.RegisterClient(cl))
	}
	var rep allocation.Report
	reg.Exclusive(func(vs []*model.Vehicle, cs []*model.Client) {
		rep = allocation.FirstFit{}.Allocate(vs, cs)
	})
	return reg, rep
}

func TestLines(t *testing.T) {
	_, rep := seeded(t)
	dist, notDist := Lines(rep)
	assert.Equal(t, []string{"VIP Ivanov: 8.5t -> V1", "VIP Sidorova: 3.5t -> V1"}, dist)
	assert.Equal(t, []string{"Kuznetsov: 30t (no room)", "Petrov: 12t (no room)"}, notDist)
}

func TestLines_Skipped(t *testing.T) {
	dist, notDist := Lines(allocation.Report{Skipped: allocation.SkipNoClients})
	assert.Nil(t, dist)
	assert.Equal(t, []string{"nothing allocated: no clients to distribute"}, notDist)
}

func TestStatsAndFleetLines(t *testing.T) {
	reg, rep := seeded(t)
	stats := StatsLines(rep.Stats)
	assert.Contains(t, stats, "Total clients: 4")
	assert.Contains(t, stats, "Vehicles used: 1/2")
	assert.Contains(t, stats, "Load: 48.0%")

	fl := FleetLines(reg.Statistics())
	assert.Contains(t, fl, "Company: Aero-Trans")
	assert.Contains(t, fl, "Clients: 4 (VIP 2)")
	assert.Contains(t, fl, "Capacity: 25t total, 12t used, 13t available")
}

func TestUsageLines(t *testing.T) {
	_, rep := seeded(t)
	assert.Equal(t, []string{"V1: [Ivanov Sidorova]", "V2: empty"}, UsageLines(rep))
}

func TestSummarize(t *testing.T) {
	_, rep := seeded(t)
	s := Summarize(rep)
	assert.Len(t, s.Distributed, 2)
	assert.Len(t, s.NotDistributed, 2)
	assert.Equal(t, rep.Stats, s.Statistics)
	assert.Equal(t, []string{"Ivanov", "Sidorova"}, s.VehicleUsage["V1"])

	skipped := Summarize(allocation.Report{Skipped: allocation.SkipNoVehicles})
	assert.Empty(t, skipped.Distributed)
	assert.NotNil(t, skipped.Distributed)
	assert.Equal(t, allocation.SkipNoVehicles, skipped.Skipped)
}

func TestRecords(t *testing.T) {
	reg, _ := seeded(t)
	vs := VehicleRecords(reg.Vehicles())
	require.Len(t, vs, 2)
	assert.Equal(t, "airplane", vs[0].Type)
	require.NotNil(t, vs[0].Altitude)
	assert.Equal(t, 12000.0, *vs[0].Altitude)
	assert.Nil(t, vs[0].Refrigerated)
	assert.Equal(t, []string{"Ivanov", "Sidorova"}, vs[0].Clients)
	assert.Equal(t, 8.0, vs[0].Remaining)
	assert.Equal(t, "van", vs[1].Type)
	require.NotNil(t, vs[1].Refrigerated)
	assert.True(t, *vs[1].Refrigerated)
	assert.Equal(t, "van V2: capacity 5t, loaded 0t, refrigerated", vs[1].String())

	cs := ClientRecords(reg.Clients())
	require.Len(t, cs, 4)
	assert.Equal(t, ClientRecord{ID: "C3", Name: "Ivanov", Weight: 8.5, VIP: true}, cs[0])
	assert.Equal(t, "C4 Petrov: cargo 12t, regular", cs[1].String())
}

func TestNewSnapshot(t *testing.T) {
	reg, rep := seeded(t)
	snap := NewSnapshot(reg, &rep)
	assert.Equal(t, "Aero-Trans", snap.Company)
	assert.Len(t, snap.Vehicles, 2)
	assert.Len(t, snap.Clients, 4)
	assert.Equal(t, 2, snap.Statistics.VIPClients)
	assert.Same(t, &rep, snap.Report)

	bare := NewSnapshot(reg, nil)
	assert.Nil(t, bare.Report)
}

func TestNewSnapshot_StatisticsMatchRecordsDuringRuns(t *testing.T) {
	reg, _ := seeded(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			reg.Exclusive(func(vs []*model.Vehicle, cs []*model.Client) {
				allocation.FirstFit{}.Allocate(vs, cs)
			})
			reg.ResetLoads()
		}
	}()

	for i := 0; i < 200; i++ {
		snap := NewSnapshot(reg, nil)
		var used float64
		for _, v := range snap.Vehicles {
			used += v.CurrentLoad
		}
		require.InDelta(t, snap.Statistics.UsedCapacity, used, 1e-9, "snapshot %d", i)
	}
	<-done
}
