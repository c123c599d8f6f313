package allocation

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/kilianp07/cargofleet/core/model"
)

func van(t *testing.T, seq model.IDSource, capacity float64) *model.Vehicle {
	t.Helper()
	v, err := model.NewVan(capacity, false, model.WithIDSource(seq))
	if err != nil {
		t.Fatalf("new van: %v", err)
	}
	return v
}

func client(t *testing.T, seq model.IDSource, name string, weight float64, vip bool) *model.Client {
	t.Helper()
	c, err := model.NewClient(name, weight, vip, model.WithIDSource(seq))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func names(as []Assignment) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ClientName)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFirstFit_VIPBeforeRegular(t *testing.T) {
	seq := model.NewSequence()
	v := van(t, seq, 10)
	vip := client(t, seq, "vip", 4, true)
	reg := client(t, seq, "regular", 8, false)

	rep := FirstFit{}.Allocate([]*model.Vehicle{v}, []*model.Client{reg, vip})

	if len(rep.Distributed) != 1 || rep.Distributed[0].ClientID != vip.ID() {
		t.Fatalf("expected only the VIP client distributed, got %+v", rep.Distributed)
	}
	if len(rep.NotDistributed) != 1 || rep.NotDistributed[0].ClientID != reg.ID() {
		t.Fatalf("expected regular client rejected, got %+v", rep.NotDistributed)
	}
	if rep.NotDistributed[0].Reason != ReasonNoRoom {
		t.Errorf("unexpected reason %q", rep.NotDistributed[0].Reason)
	}
	if v.Load() != 4 {
		t.Errorf("expected load 4 got %v", v.Load())
	}
	if math.Abs(rep.Stats.LoadPercentage-40) > 1e-9 {
		t.Errorf("expected 40%% load got %v", rep.Stats.LoadPercentage)
	}
}

func TestFirstFit_SpillsToNextVehicle(t *testing.T) {
	seq := model.NewSequence()
	small := van(t, seq, 15)
	large := van(t, seq, 20)
	a := client(t, seq, "a", 12, false)
	b := client(t, seq, "b", 15, false)

	rep := FirstFit{}.Allocate([]*model.Vehicle{small, large}, []*model.Client{a, b})

	if len(rep.NotDistributed) != 0 {
		t.Fatalf("expected every client placed, got %+v", rep.NotDistributed)
	}
	if !equal(rep.VehicleOrder, []string{large.ID(), small.ID()}) {
		t.Errorf("unexpected vehicle order %v", rep.VehicleOrder)
	}
	// b is heavier so it goes first, into the largest vehicle.
	if got := rep.Usage[large.ID()]; !equal(got, []string{"b"}) {
		t.Errorf("large vehicle holds %v", got)
	}
	if got := rep.Usage[small.ID()]; !equal(got, []string{"a"}) {
		t.Errorf("small vehicle holds %v", got)
	}
	if large.Load() != 15 || small.Load() != 12 {
		t.Errorf("unexpected loads %v %v", large.Load(), small.Load())
	}
	if rep.Stats.VehiclesUsed != 2 || rep.Stats.TotalVehicles != 2 {
		t.Errorf("unexpected stats %+v", rep.Stats)
	}
}

func TestFirstFit_RegistrationOrderScenario(t *testing.T) {
	seq := model.NewSequence()
	v20 := van(t, seq, 20)
	v15 := van(t, seq, 15)
	c12 := client(t, seq, "twelve", 12, false)
	c15 := client(t, seq, "fifteen", 15, false)

	rep := FirstFit{}.Allocate([]*model.Vehicle{v20, v15}, []*model.Client{c12, c15})

	if rep.Stats.DistributedCount != 2 {
		t.Fatalf("expected both clients distributed, got %+v", rep)
	}
	if v20.Load()+v15.Load() != 27 {
		t.Errorf("unexpected total load %v", v20.Load()+v15.Load())
	}
}

func TestFirstFit_StableWeightOrder(t *testing.T) {
	seq := model.NewSequence()
	v := van(t, seq, 100)
	clients := []*model.Client{
		client(t, seq, "r1", 5, false),
		client(t, seq, "v1", 2, true),
		client(t, seq, "r2", 9, false),
		client(t, seq, "r3", 5, false),
		client(t, seq, "v2", 7, true),
		client(t, seq, "v3", 2, true),
	}

	rep := FirstFit{}.Allocate([]*model.Vehicle{v}, clients)

	want := []string{"v2", "v1", "v3", "r2", "r1", "r3"}
	if got := names(rep.Distributed); !equal(got, want) {
		t.Errorf("placement order %v, want %v", got, want)
	}
	if got := rep.Usage[v.ID()]; !equal(got, want) {
		t.Errorf("usage order %v, want %v", got, want)
	}
}

func TestFirstFit_VehicleTiesKeepRegistrationOrder(t *testing.T) {
	seq := model.NewSequence()
	first := van(t, seq, 10)
	second := van(t, seq, 10)
	c := client(t, seq, "c", 3, false)

	rep := FirstFit{}.Allocate([]*model.Vehicle{first, second}, []*model.Client{c})

	if rep.Distributed[0].VehicleID != first.ID() {
		t.Errorf("expected first registered vehicle, got %s", rep.Distributed[0].VehicleID)
	}
	if len(rep.Usage[second.ID()]) != 0 || rep.Usage[second.ID()] == nil {
		t.Errorf("unused vehicle should map to an empty list, got %v", rep.Usage[second.ID()])
	}
}

func TestFirstFit_VIPReason(t *testing.T) {
	seq := model.NewSequence()
	v := van(t, seq, 5)
	heavy := client(t, seq, "heavy", 6, true)

	rep := FirstFit{}.Allocate([]*model.Vehicle{v}, []*model.Client{heavy})

	if len(rep.NotDistributed) != 1 || rep.NotDistributed[0].Reason != ReasonNoSuitableVehicle {
		t.Fatalf("unexpected rejections %+v", rep.NotDistributed)
	}
	if v.Load() != 0 {
		t.Errorf("load changed on rejection: %v", v.Load())
	}
}

func TestFirstFit_EveryClientReportedOnce(t *testing.T) {
	seq := model.NewSequence()
	vehicles := []*model.Vehicle{van(t, seq, 10), van(t, seq, 7), van(t, seq, 3)}
	var clients []*model.Client
	for i, w := range []float64{4, 8, 2.5, 6, 3, 9, 1, 5} {
		clients = append(clients, client(t, seq, "c", w, i%3 == 0))
	}

	rep := FirstFit{}.Allocate(vehicles, clients)

	seen := make(map[string]int)
	for _, a := range rep.Distributed {
		seen[a.ClientID]++
	}
	for _, r := range rep.NotDistributed {
		seen[r.ClientID]++
	}
	if len(seen) != len(clients) {
		t.Fatalf("expected %d clients reported, got %d", len(clients), len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("client %s reported %d times", id, n)
		}
	}
	if rep.Stats.TotalClients != rep.Stats.DistributedCount+rep.Stats.NotDistributedCount {
		t.Errorf("inconsistent stats %+v", rep.Stats)
	}
	for _, v := range vehicles {
		if v.Load() > v.Capacity() || v.Load() < 0 {
			t.Errorf("vehicle %s load %v outside [0,%v]", v.ID(), v.Load(), v.Capacity())
		}
	}
}

func TestFirstFit_Skips(t *testing.T) {
	seq := model.NewSequence()
	v := van(t, seq, 10)
	c := client(t, seq, "c", 1, false)

	rep := FirstFit{}.Allocate([]*model.Vehicle{v}, nil)
	if !rep.Empty() || rep.Skipped != SkipNoClients {
		t.Errorf("expected skip for no clients, got %+v", rep)
	}
	rep = FirstFit{}.Allocate(nil, []*model.Client{c})
	if !rep.Empty() || rep.Skipped != SkipNoVehicles {
		t.Errorf("expected skip for no vehicles, got %+v", rep)
	}
	if len(rep.Distributed) != 0 || len(rep.NotDistributed) != 0 {
		t.Errorf("skipped report should carry no outcome")
	}
	if v.Load() != 0 {
		t.Errorf("skipped run loaded a vehicle")
	}
}

func TestFirstFit_SkippedReportEncodesEmptyCollections(t *testing.T) {
	rep := FirstFit{}.Allocate(nil, nil)
	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"distributed":[]`, `"not_distributed":[]`, `"vehicle_usage":{}`, `"vehicle_order":[]`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded report lacks %s: %s", want, data)
		}
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("encoded report contains null: %s", data)
	}
}

func TestFirstFit_RerunOnFullFleet(t *testing.T) {
	seq := model.NewSequence()
	v := van(t, seq, 5)
	c1 := client(t, seq, "c1", 5, false)
	first := FirstFit{}.Allocate([]*model.Vehicle{v}, []*model.Client{c1})
	if first.Stats.DistributedCount != 1 {
		t.Fatalf("first run failed: %+v", first)
	}

	fresh := []*model.Client{client(t, seq, "c2", 1, true), client(t, seq, "c3", 2, false)}
	rep := FirstFit{}.Allocate([]*model.Vehicle{v}, fresh)

	if rep.Stats.DistributedCount != 0 || rep.Stats.NotDistributedCount != 2 {
		t.Errorf("expected nothing placed, got %+v", rep.Stats)
	}
	if v.Load() != 5 {
		t.Errorf("load changed on full vehicle: %v", v.Load())
	}
	if rep.Stats.LoadPercentage != 100 {
		t.Errorf("expected 100%% load got %v", rep.Stats.LoadPercentage)
	}
}

func TestReport_VIPCounts(t *testing.T) {
	rep := Report{
		Distributed:    []Assignment{{VIP: true}, {VIP: false}, {VIP: true}},
		NotDistributed: []Rejection{{VIP: true}, {VIP: false}},
	}
	in, out := rep.VIPCounts()
	if in != 2 || out != 1 {
		t.Errorf("got %d/%d", in, out)
	}
}
