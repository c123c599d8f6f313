package config

import (
	"fmt"

	"github.com/kilianp07/cargofleet/core/model"
)

// Id generators.
const (
	IDsRandom   = "random"
	IDsSequence = "sequence"
)

// IDSource returns the generator selected by c.IDs.
func (c Config) IDSource() model.IDSource {
	if c.IDs == IDsSequence {
		return model.NewSequence()
	}
	return model.NewShortIDSource()
}

// FleetConfig lists the vehicles and clients registered at start-up, in
// registration order.
type FleetConfig struct {
	Vehicles []VehicleConfig `json:"vehicles"`
	Clients  []ClientConfig  `json:"clients"`
}

// VehicleConfig describes one vehicle. MaxAltitude applies to airplanes,
// Refrigerated to vans.
type VehicleConfig struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	Capacity     float64 `json:"capacity"`
	MaxAltitude  float64 `json:"max_altitude"`
	Refrigerated bool    `json:"refrigerated"`
}

// ClientConfig describes one client.
type ClientConfig struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	VIP    bool    `json:"vip"`
}

// DefaultFleet is the demo company: two airplanes, one refrigerated van and
// three clients, two of them VIP.
func DefaultFleet() *FleetConfig {
	return &FleetConfig{
		Vehicles: []VehicleConfig{
			{Kind: "airplane", Capacity: 20, MaxAltitude: 12000},
			{Kind: "airplane", Capacity: 15, MaxAltitude: 10000},
			{Kind: "van", Capacity: 5, Refrigerated: true},
		},
		Clients: []ClientConfig{
			{Name: "Ivan Ivanov", Weight: 8.5, VIP: true},
			{Name: "Petr Petrov", Weight: 12},
			{Name: "Anna Sidorova", Weight: 3.5, VIP: true},
		},
	}
}

// Validate only checks the vehicle kinds. Capacity, weight and name checks
// happen when the entities are built, so one bad entry does not prevent the
// others from loading.
func (f FleetConfig) Validate() error {
	for i, v := range f.Vehicles {
		if _, err := model.ParseKind(v.Kind); err != nil {
			return fmt.Errorf("vehicle %d: %w", i, err)
		}
	}
	return nil
}

func idOptions(id string, src model.IDSource) []model.Option {
	if id != "" {
		return []model.Option{model.WithID(id)}
	}
	return []model.Option{model.WithIDSource(src)}
}

// Build creates the vehicle, drawing an id from src unless one is set.
func (v VehicleConfig) Build(src model.IDSource) (*model.Vehicle, error) {
	kind, err := model.ParseKind(v.Kind)
	if err != nil {
		return nil, err
	}
	opts := idOptions(v.ID, src)
	switch kind {
	case model.KindAirplane:
		return model.NewAirplane(v.Capacity, v.MaxAltitude, opts...)
	default:
		return model.NewVan(v.Capacity, v.Refrigerated, opts...)
	}
}

// Build creates the client, drawing an id from src unless one is set.
func (c ClientConfig) Build(src model.IDSource) (*model.Client, error) {
	return model.NewClient(c.Name, c.Weight, c.VIP, idOptions(c.ID, src)...)
}
