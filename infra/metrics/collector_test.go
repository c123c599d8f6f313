package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/cargofleet/core/events"
	coremetrics "github.com/kilianp07/cargofleet/core/metrics"
	"github.com/kilianp07/cargofleet/internal/eventbus"
)

type placementSink struct {
	coremetrics.NopSink
	mu   sync.Mutex
	recs []coremetrics.Placement
}

func (s *placementSink) RecordPlacement(p coremetrics.Placement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, p)
	return nil
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.New()
	sink := &placementSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := StartEventCollector(ctx, bus, sink)

	bus.Publish(events.ResetEvent{Vehicles: 1})
	bus.Publish(events.RunEvent{RunID: "r1", Placements: []events.PlacementEvent{
		{RunID: "r1", ClientID: "C1", VehicleID: "V1", Placed: true},
		{RunID: "r1", ClientID: "C2", Reason: "no room"},
	}})

	deadline := time.After(time.Second)
	for {
		sink.mu.Lock()
		n := len(sink.recs)
		sink.mu.Unlock()
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected 2 placements, got %d", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
	if sink.recs[0].VehicleID != "V1" || sink.recs[1].Reason != "no room" {
		t.Errorf("unexpected records %+v", sink.recs)
	}

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after bus close")
	}
}

func TestStartEventCollector_UnsupportedSink(t *testing.T) {
	done := StartEventCollector(context.Background(), eventbus.New(), struct{ coremetrics.MetricsSink }{coremetrics.NopSink{}})
	select {
	case <-done:
	default:
		t.Fatal("collector should not start without a placement recorder")
	}
}
