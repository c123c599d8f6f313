package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/cargofleet/core/metrics"
)

func TestNewHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	_ = sink.RecordAllocation(coremetrics.AllocationRun{LoadPercentage: 48})

	srv := httptest.NewServer(NewHandler(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "fleet_load_percentage 48") {
		t.Errorf("metric not exposed:\n%s", body)
	}
}
