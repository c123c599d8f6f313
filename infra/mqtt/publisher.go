package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/cargofleet/core/mqtt"
)

// ReportPublisher mirrors the core mqtt.ReportPublisher interface.
type ReportPublisher = coremqtt.ReportPublisher

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Reports map[string][]byte
	Order   []string
	Fail    bool
	mu      sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Reports: make(map[string][]byte)}
}

// PublishReport records the payload or returns an error if configured to fail.
func (m *MockPublisher) PublishReport(_ context.Context, runID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Reports[runID] = append([]byte(nil), payload...)
	m.Order = append(m.Order, runID)
	return nil
}

// Published returns the run ids seen so far, in publish order.
func (m *MockPublisher) Published() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Order...)
}
