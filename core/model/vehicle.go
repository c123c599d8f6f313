package model

import (
	"fmt"
	"math"
	"strings"
)

// Kind tags the vehicle variant.
type Kind int

const (
	KindAirplane Kind = iota + 1
	KindVan
)

func (k Kind) String() string {
	switch k {
	case KindAirplane:
		return "airplane"
	case KindVan:
		return "van"
	default:
		return "unknown"
	}
}

// ParseKind maps "airplane" or "van" (case insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "airplane":
		return KindAirplane, nil
	case "van":
		return KindVan, nil
	}
	return 0, &ValidationError{Field: "kind", Value: s, Reason: "must be airplane or van"}
}

// Capability is the variant specific payload of a vehicle. It does not take
// part in allocation.
type Capability interface {
	kind() Kind
}

// Airplane can fly up to MaxAltitude metres.
type Airplane struct {
	MaxAltitude float64
}

func (Airplane) kind() Kind { return KindAirplane }

// Van may carry a refrigeration unit.
type Van struct {
	Refrigerated bool
}

func (Van) kind() Kind { return KindVan }

// Vehicle is a unit of the fleet. Load state only changes through LoadCargo
// and UnloadCargo; 0 <= Load() <= Capacity() always holds.
type Vehicle struct {
	id         string
	capacity   float64
	load       float64
	clients    []*Client
	capability Capability
}

// NewVehicle validates capacity and payload and assigns a fresh id.
func NewVehicle(kind Kind, capacity float64, capability Capability, opts ...Option) (*Vehicle, error) {
	if !positive(capacity) {
		return nil, &ValidationError{Field: "capacity", Value: capacity, Reason: "must be a positive number"}
	}
	if capability == nil {
		return nil, &ValidationError{Field: "kind", Value: kind, Reason: "missing vehicle payload"}
	}
	if capability.kind() != kind {
		return nil, &ValidationError{Field: "kind", Value: kind, Reason: fmt.Sprintf("payload is %s", capability.kind())}
	}
	if a, ok := capability.(Airplane); ok && !positive(a.MaxAltitude) {
		return nil, &ValidationError{Field: "max_altitude", Value: a.MaxAltitude, Reason: "must be a positive number"}
	}
	return &Vehicle{
		id:         resolveID("V", opts),
		capacity:   capacity,
		capability: capability,
	}, nil
}

// NewAirplane builds an airplane vehicle.
func NewAirplane(capacity, maxAltitude float64, opts ...Option) (*Vehicle, error) {
	return NewVehicle(KindAirplane, capacity, Airplane{MaxAltitude: maxAltitude}, opts...)
}

// NewVan builds a van vehicle.
func NewVan(capacity float64, refrigerated bool, opts ...Option) (*Vehicle, error) {
	return NewVehicle(KindVan, capacity, Van{Refrigerated: refrigerated}, opts...)
}

func (v *Vehicle) ID() string             { return v.id }
func (v *Vehicle) Kind() Kind             { return v.capability.kind() }
func (v *Vehicle) Capacity() float64      { return v.capacity }
func (v *Vehicle) Load() float64          { return v.load }
func (v *Vehicle) Capability() Capability { return v.capability }

// Clients returns the loaded clients in load order.
func (v *Vehicle) Clients() []*Client {
	return append([]*Client(nil), v.clients...)
}

// RemainingCapacity is capacity minus load, never negative.
func (v *Vehicle) RemainingCapacity() float64 {
	return math.Max(v.capacity-v.load, 0)
}

// LoadCargo puts the whole cargo of c on board. It returns false and leaves
// the vehicle untouched when the cargo does not fit.
func (v *Vehicle) LoadCargo(c *Client) bool {
	if c == nil {
		return false
	}
	if v.load+c.weight > v.capacity {
		return false
	}
	v.load += c.weight
	v.clients = append(v.clients, c)
	return true
}

// UnloadCargo empties the vehicle.
func (v *Vehicle) UnloadCargo() {
	v.load = 0
	v.clients = nil
}

// CanReachAltitude reports whether the vehicle can fly at the given altitude
// in metres. Only airplanes can.
func (v *Vehicle) CanReachAltitude(altitude float64) bool {
	switch c := v.capability.(type) {
	case Airplane:
		return altitude <= c.MaxAltitude
	default:
		return false
	}
}

// CanTransportPerishable reports whether the vehicle is refrigerated.
func (v *Vehicle) CanTransportPerishable() bool {
	switch c := v.capability.(type) {
	case Van:
		return c.Refrigerated
	default:
		return false
	}
}

func (v *Vehicle) String() string {
	base := fmt.Sprintf("%s %s: capacity %gt, loaded %gt", v.Kind(), v.id, v.capacity, v.load)
	switch c := v.capability.(type) {
	case Airplane:
		return fmt.Sprintf("%s, max altitude %gm", base, c.MaxAltitude)
	case Van:
		if c.Refrigerated {
			return base + ", refrigerated"
		}
		return base + ", not refrigerated"
	}
	return base
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
