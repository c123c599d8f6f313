// Package logging persists one record per allocation run so past runs can
// be inspected after the process exits. Entities are never reloaded from
// these records.
package logging

import (
	"context"
	"slices"
	"time"
)

// LogRecord captures one allocation run.
type LogRecord struct {
	Timestamp  time.Time   `json:"timestamp"`
	RunID      string      `json:"run_id"`
	Company    string      `json:"company"`
	Skipped    string      `json:"skipped,omitempty"`
	Stats      RunStats    `json:"statistics"`
	Placements []Placement `json:"placements"`
	Rejections []Rejected  `json:"rejections"`
}

// RunStats mirrors allocation.Stats for logging purposes.
type RunStats struct {
	TotalClients        int     `json:"total_clients"`
	DistributedCount    int     `json:"distributed_count"`
	NotDistributedCount int     `json:"not_distributed_count"`
	VehiclesUsed        int     `json:"vehicles_used"`
	TotalVehicles       int     `json:"total_vehicles"`
	LoadPercentage      float64 `json:"load_percentage"`
}

// Placement mirrors allocation.Assignment.
type Placement struct {
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name"`
	VIP        bool    `json:"vip"`
	VehicleID  string  `json:"vehicle_id"`
	Weight     float64 `json:"weight"`
}

// Rejected mirrors allocation.Rejection.
type Rejected struct {
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name"`
	VIP        bool    `json:"vip"`
	Weight     float64 `json:"weight"`
	Reason     string  `json:"reason"`
}

// LogQuery defines filters for retrieving records. Zero fields match
// everything.
type LogQuery struct {
	Start     time.Time
	End       time.Time
	VehicleID string
	ClientID  string
}

// Match reports whether rec passes every filter of q.
func (q LogQuery) Match(rec LogRecord) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.VehicleID != "" && !slices.ContainsFunc(rec.Placements, func(p Placement) bool {
		return p.VehicleID == q.VehicleID
	}) {
		return false
	}
	if q.ClientID != "" {
		placed := slices.ContainsFunc(rec.Placements, func(p Placement) bool { return p.ClientID == q.ClientID })
		rejected := slices.ContainsFunc(rec.Rejections, func(r Rejected) bool { return r.ClientID == q.ClientID })
		if !placed && !rejected {
			return false
		}
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}
