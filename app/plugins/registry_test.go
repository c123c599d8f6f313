package plugins

import (
	"testing"

	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/model"
)

type noopStrategy struct{}

func (noopStrategy) Allocate([]*model.Vehicle, []*model.Client) allocation.Report {
	return allocation.Report{Skipped: "noop"}
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("", nil)
	if err != nil {
		t.Fatalf("default strategy: %v", err)
	}
	if _, ok := s.(allocation.FirstFit); !ok {
		t.Fatalf("expected FirstFit, got %T", s)
	}
	if _, err := NewStrategy("best_fit", nil); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestRegisterStrategy(t *testing.T) {
	if err := RegisterStrategy("noop-test", func(map[string]any) (allocation.Strategy, error) {
		return noopStrategy{}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterStrategy(DefaultStrategy, func(map[string]any) (allocation.Strategy, error) {
		return noopStrategy{}, nil
	}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	s, err := NewStrategy("noop-test", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rep := s.Allocate(nil, nil); rep.Skipped != "noop" {
		t.Fatalf("unexpected report %+v", rep)
	}
	found := false
	for _, n := range Strategies() {
		if n == "noop-test" {
			found = true
		}
	}
	if !found {
		t.Fatalf("noop-test not listed in %v", Strategies())
	}
}
