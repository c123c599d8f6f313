package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/cargofleet/core/events"
	coremetrics "github.com/kilianp07/cargofleet/core/metrics"
	"github.com/kilianp07/cargofleet/infra/logger"
	"github.com/kilianp07/cargofleet/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards the
// placements carried by each RunEvent to sinks implementing
// coremetrics.PlacementRecorder. It stops when
// the context is canceled or the bus is closed; the returned channel is
// closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.PlacementRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	log := logger.New("event-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				run, isRun := ev.(events.RunEvent)
				if !isRun {
					continue
				}
				now := time.Now()
				for _, e := range run.Placements {
					if err := rec.RecordPlacement(coremetrics.Placement{
						RunID:     e.RunID,
						ClientID:  e.ClientID,
						VIP:       e.VIP,
						Weight:    e.Weight,
						VehicleID: e.VehicleID,
						Placed:    e.Placed,
						Reason:    e.Reason,
						Time:      now,
					}); err != nil {
						log.Warnf("placement metrics error: %v", err)
					}
				}
			}
		}
	}()
	return done
}
