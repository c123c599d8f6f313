package metrics

import "errors"

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAllocation forwards the run to every sink. All sinks are tried; the
// returned error joins the individual failures.
func (m *MultiSink) RecordAllocation(run AllocationRun) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordAllocation(run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordVehicleLoads forwards load snapshots to the sinks supporting them.
func (m *MultiSink) RecordVehicleLoads(loads []VehicleLoad) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(VehicleLoadRecorder); ok {
			if err := rec.RecordVehicleLoads(loads); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordPlacement forwards placements to the sinks supporting them.
func (m *MultiSink) RecordPlacement(p Placement) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(PlacementRecorder); ok {
			if err := rec.RecordPlacement(p); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
