package metrics_test

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/cargofleet/core/factory"
	metrics "github.com/kilianp07/cargofleet/core/metrics"
)

/*
TestNewMetricsSink validates NewMetricsSink behavior with zero, one, and multiple configs.
Cases:
  - no config -> NopSink
  - one nop config -> NopSink
  - two configs -> MultiSink with two sub-sinks
  - unknown type -> error
*/
func TestNewMetricsSink(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("create nop: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*metrics.MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}

	if _, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

// Test decoding sink lists from YAML and JSON.
func TestMetricsConfigDecode(t *testing.T) {
	var fromYAML metrics.Config
	data := "sinks:\n  - type: nop\n  - type: nop\n"
	if err := yaml.Unmarshal([]byte(data), &fromYAML); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if len(fromYAML.Sinks) != 2 || fromYAML.Sinks[0].Type != "nop" {
		t.Fatalf("unexpected yaml config %+v", fromYAML)
	}

	var fromJSON metrics.Config
	if err := json.Unmarshal([]byte(`{"sinks":[{"type":"missing"}],"prometheus_addr":":9100"}`), &fromJSON); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if fromJSON.PrometheusAddr != ":9100" {
		t.Fatalf("prometheus_addr not decoded")
	}
	if _, err := metrics.NewMetricsSink(fromJSON.Sinks); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
