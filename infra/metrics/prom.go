package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/cargofleet/core/metrics"
)

// PromSink exposes the state left by the last allocation run as Prometheus
// gauges, plus a per-client outcome counter fed by the event collector.
type PromSink struct {
	loadPct      prometheus.Gauge
	vehiclesUsed prometheus.Gauge
	clients      *prometheus.GaugeVec
	vehicleLoad  *prometheus.GaugeVec
	vehicleCap   *prometheus.GaugeVec
	placements   *prometheus.CounterVec
}

// NewPromSink registers the sink metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.loadPct, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_load_percentage",
		Help: "Aggregate fleet load after the last allocation run",
	})); err != nil {
		return nil, err
	}
	if s.vehiclesUsed, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_vehicles_used",
		Help: "Vehicles carrying cargo after the last allocation run",
	})); err != nil {
		return nil, err
	}
	if s.clients, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleet_clients",
		Help: "Clients of the last allocation run by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.vehicleLoad, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vehicle_load_tonnes",
		Help: "Current load per vehicle",
	}, []string{"vehicle_id", "kind"})); err != nil {
		return nil, err
	}
	if s.vehicleCap, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vehicle_capacity_tonnes",
		Help: "Capacity per vehicle",
	}, []string{"vehicle_id", "kind"})); err != nil {
		return nil, err
	}
	if s.placements, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "client_placements_total",
		Help: "Client outcomes observed on the event bus",
	}, []string{"tier", "placed"})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAllocation sets the fleet gauges. Skipped runs leave them untouched.
func (s *PromSink) RecordAllocation(run coremetrics.AllocationRun) error {
	if run.Skipped {
		return nil
	}
	s.loadPct.Set(run.LoadPercentage)
	s.vehiclesUsed.Set(float64(run.VehiclesUsed))
	s.clients.WithLabelValues("distributed").Set(float64(run.Distributed))
	s.clients.WithLabelValues("not_distributed").Set(float64(run.NotDistributed))
	return nil
}

// RecordVehicleLoads sets the per-vehicle gauges.
func (s *PromSink) RecordVehicleLoads(loads []coremetrics.VehicleLoad) error {
	for _, l := range loads {
		s.vehicleLoad.WithLabelValues(l.VehicleID, l.Kind).Set(l.Load)
		s.vehicleCap.WithLabelValues(l.VehicleID, l.Kind).Set(l.Capacity)
	}
	return nil
}

// RecordPlacement counts one client outcome.
func (s *PromSink) RecordPlacement(p coremetrics.Placement) error {
	tier := "regular"
	if p.VIP {
		tier = "vip"
	}
	s.placements.WithLabelValues(tier, strconv.FormatBool(p.Placed)).Inc()
	return nil
}
