package events

import "time"

// RunEvent is published once per allocation run. Placements holds one entry
// per client considered, so a single delivery carries the whole run.
type RunEvent struct {
	RunID          string
	Distributed    int
	NotDistributed int
	LoadPercentage float64
	Skipped        string
	Duration       time.Duration
	Placements     []PlacementEvent
}

// PlacementEvent describes the outcome for one client of a run.
type PlacementEvent struct {
	RunID      string
	ClientID   string
	ClientName string
	VIP        bool
	Weight     float64
	VehicleID  string
	Placed     bool
	Reason     string
}

// ResetEvent is published after the loads of all vehicles were cleared.
type ResetEvent struct {
	Vehicles int
	Time     time.Time
}
