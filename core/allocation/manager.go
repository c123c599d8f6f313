package allocation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/cargofleet/core/allocation/logging"
	"github.com/kilianp07/cargofleet/core/events"
	"github.com/kilianp07/cargofleet/core/fleet"
	"github.com/kilianp07/cargofleet/core/logger"
	"github.com/kilianp07/cargofleet/core/metrics"
	"github.com/kilianp07/cargofleet/core/model"
	"github.com/kilianp07/cargofleet/core/monitoring"
	"github.com/kilianp07/cargofleet/core/mqtt"
	"github.com/kilianp07/cargofleet/internal/eventbus"
)

// Manager runs a Strategy against a registry and fans the outcome out to the
// metrics sink, the event bus, the run log and the report publisher. Runs are
// serialized.
type Manager struct {
	registry *fleet.Registry
	strategy Strategy
	metrics  metrics.MetricsSink
	bus      eventbus.EventBus
	logger   logger.Logger
	monitor  monitoring.Monitor

	mu             sync.Mutex
	store          logging.LogStore
	publisher      mqtt.ReportPublisher
	resetBeforeRun bool

	runMu sync.Mutex
}

// NewManager creates a manager. sink, bus and log may be nil.
func NewManager(reg *fleet.Registry, strategy Strategy, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*Manager, error) {
	if reg == nil || strategy == nil {
		return nil, fmt.Errorf("allocation: nil parameter provided to NewManager")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Manager{
		registry: reg,
		strategy: strategy,
		metrics:  sink,
		bus:      bus,
		logger:   logger.OrNop(log),
		monitor:  monitoring.NopMonitor{},
	}, nil
}

// SetMonitor configures where side-effect failures are reported.
func (m *Manager) SetMonitor(mon monitoring.Monitor) {
	m.mu.Lock()
	m.monitor = monitoring.OrNop(mon)
	m.mu.Unlock()
}

func (m *Manager) capture(stage, runID string, err error) {
	m.mu.Lock()
	mon := m.monitor
	m.mu.Unlock()
	mon.CaptureException(err, map[string]string{"stage": stage, "run_id": runID})
}

// SetLogStore configures the store used to persist run records.
func (m *Manager) SetLogStore(store logging.LogStore) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

// SetPublisher configures where finished reports are pushed.
func (m *Manager) SetPublisher(p mqtt.ReportPublisher) {
	m.mu.Lock()
	m.publisher = p
	m.mu.Unlock()
}

// SetResetBeforeRun makes every run start from an empty fleet.
func (m *Manager) SetResetBeforeRun(reset bool) {
	m.mu.Lock()
	m.resetBeforeRun = reset
	m.mu.Unlock()
}

// Run performs one allocation pass over the registry. The only error is a
// context that is already done; failures of the metrics sink, the run log
// or the publisher are logged, reported to the monitor and do not affect
// the report.
func (m *Manager) Run(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	m.runMu.Lock()
	defer m.runMu.Unlock()

	m.mu.Lock()
	store, pub, reset := m.store, m.publisher, m.resetBeforeRun
	m.mu.Unlock()

	start := time.Now()
	var (
		rep   Report
		loads []metrics.VehicleLoad
	)
	m.registry.Exclusive(func(vehicles []*model.Vehicle, clients []*model.Client) {
		if reset {
			for _, v := range vehicles {
				v.UnloadCargo()
			}
		}
		rep = m.strategy.Allocate(vehicles, clients)
		loads = snapshotLoads(vehicles, start)
	})
	rep.RunID = uuid.NewString()
	rep.StartedAt = start
	rep.Duration = time.Since(start)

	observe(rep)
	if rep.Empty() {
		m.logger.Infof("allocation %s skipped: %s", rep.RunID, rep.Skipped)
	} else {
		m.logger.Infof("allocation %s: %d distributed, %d not distributed, load %.1f%%",
			rep.RunID, rep.Stats.DistributedCount, rep.Stats.NotDistributedCount, rep.Stats.LoadPercentage)
	}
	m.publishEvents(rep)
	m.recordMetrics(rep, loads)
	m.persist(ctx, store, rep)
	m.publishReport(ctx, pub, rep)
	return rep, nil
}

// Reset unloads every vehicle of the registry.
func (m *Manager) Reset() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	m.registry.ResetLoads()
	if m.bus != nil {
		m.bus.Publish(events.ResetEvent{Vehicles: len(m.registry.Vehicles()), Time: time.Now()})
	}
}

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	m.mu.Lock()
	store := m.store
	m.store = nil
	m.mu.Unlock()
	if store != nil {
		return store.Close()
	}
	return nil
}

func snapshotLoads(vehicles []*model.Vehicle, at time.Time) []metrics.VehicleLoad {
	out := make([]metrics.VehicleLoad, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, metrics.VehicleLoad{
			VehicleID: v.ID(),
			Kind:      v.Kind().String(),
			Capacity:  v.Capacity(),
			Load:      v.Load(),
			Clients:   len(v.Clients()),
			Time:      at,
		})
	}
	return out
}

func (m *Manager) publishEvents(rep Report) {
	if m.bus == nil {
		return
	}
	placements := make([]events.PlacementEvent, 0, len(rep.Distributed)+len(rep.NotDistributed))
	for _, a := range rep.Distributed {
		placements = append(placements, events.PlacementEvent{
			RunID:      rep.RunID,
			ClientID:   a.ClientID,
			ClientName: a.ClientName,
			VIP:        a.VIP,
			Weight:     a.Weight,
			VehicleID:  a.VehicleID,
			Placed:     true,
		})
	}
	for _, r := range rep.NotDistributed {
		placements = append(placements, events.PlacementEvent{
			RunID:      rep.RunID,
			ClientID:   r.ClientID,
			ClientName: r.ClientName,
			VIP:        r.VIP,
			Weight:     r.Weight,
			Reason:     r.Reason,
		})
	}
	m.bus.Publish(events.RunEvent{
		RunID:          rep.RunID,
		Distributed:    len(rep.Distributed),
		NotDistributed: len(rep.NotDistributed),
		LoadPercentage: rep.Stats.LoadPercentage,
		Skipped:        rep.Skipped,
		Duration:       rep.Duration,
		Placements:     placements,
	})
}

// recordMetrics forwards the run to the sink. Per-vehicle loads are only
// sent to sinks implementing metrics.VehicleLoadRecorder.
func (m *Manager) recordMetrics(rep Report, loads []metrics.VehicleLoad) {
	vipIn, vipOut := rep.VIPCounts()
	run := metrics.AllocationRun{
		RunID:             rep.RunID,
		Company:           m.registry.Name(),
		Time:              rep.StartedAt,
		Duration:          rep.Duration,
		Skipped:           rep.Empty(),
		TotalClients:      rep.Stats.TotalClients,
		Distributed:       rep.Stats.DistributedCount,
		NotDistributed:    rep.Stats.NotDistributedCount,
		VIPDistributed:    vipIn,
		VIPNotDistributed: vipOut,
		VehiclesUsed:      rep.Stats.VehiclesUsed,
		TotalVehicles:     rep.Stats.TotalVehicles,
		LoadPercentage:    rep.Stats.LoadPercentage,
	}
	if err := m.metrics.RecordAllocation(run); err != nil {
		m.logger.Errorf("metrics error: %v", err)
		m.capture("metrics", rep.RunID, err)
	}
	if lr, ok := m.metrics.(metrics.VehicleLoadRecorder); ok && len(loads) > 0 {
		if err := lr.RecordVehicleLoads(loads); err != nil {
			m.logger.Errorf("vehicle load metrics error: %v", err)
			m.capture("metrics", rep.RunID, err)
		}
	}
}

func (m *Manager) persist(ctx context.Context, store logging.LogStore, rep Report) {
	if store == nil {
		return
	}
	if err := store.Append(ctx, toLogRecord(m.registry.Name(), rep)); err != nil {
		m.logger.Errorf("run log error: %v", err)
		m.capture("run_log", rep.RunID, err)
	}
}

func (m *Manager) publishReport(ctx context.Context, pub mqtt.ReportPublisher, rep Report) {
	if pub == nil {
		return
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		m.logger.Errorf("encode report %s: %v", rep.RunID, err)
		m.capture("publish", rep.RunID, err)
		return
	}
	if err := pub.PublishReport(ctx, rep.RunID, payload); err != nil {
		reportPublishFail.Inc()
		m.logger.Errorf("publish report %s: %v", rep.RunID, err)
		m.capture("publish", rep.RunID, err)
		return
	}
	m.logger.Debugw("report published", map[string]any{"run_id": rep.RunID, "bytes": len(payload)})
}

func toLogRecord(company string, rep Report) logging.LogRecord {
	rec := logging.LogRecord{
		Timestamp: rep.StartedAt,
		RunID:     rep.RunID,
		Company:   company,
		Skipped:   rep.Skipped,
		Stats: logging.RunStats{
			TotalClients:        rep.Stats.TotalClients,
			DistributedCount:    rep.Stats.DistributedCount,
			NotDistributedCount: rep.Stats.NotDistributedCount,
			VehiclesUsed:        rep.Stats.VehiclesUsed,
			TotalVehicles:       rep.Stats.TotalVehicles,
			LoadPercentage:      rep.Stats.LoadPercentage,
		},
		Placements: make([]logging.Placement, 0, len(rep.Distributed)),
		Rejections: make([]logging.Rejected, 0, len(rep.NotDistributed)),
	}
	for _, a := range rep.Distributed {
		rec.Placements = append(rec.Placements, logging.Placement(a))
	}
	for _, r := range rep.NotDistributed {
		rec.Rejections = append(rec.Rejections, logging.Rejected(r))
	}
	return rec
}
