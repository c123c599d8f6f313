package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/cargofleet/core/model"
)

type VehicleDef struct {
	ID           string  `yaml:"id"`
	Kind         string  `yaml:"kind"`
	Capacity     float64 `yaml:"capacity"`
	MaxAltitude  float64 `yaml:"max_altitude"`
	Refrigerated bool    `yaml:"refrigerated"`
}

func (v VehicleDef) ToModel() (*model.Vehicle, error) {
	kind, err := model.ParseKind(v.Kind)
	if err != nil {
		return nil, err
	}
	if kind == model.KindAirplane {
		return model.NewAirplane(v.Capacity, v.MaxAltitude, model.WithID(v.ID))
	}
	return model.NewVan(v.Capacity, v.Refrigerated, model.WithID(v.ID))
}

type ClientDef struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	VIP    bool    `yaml:"vip"`
}

func (c ClientDef) ToModel() (*model.Client, error) {
	return model.NewClient(c.Name, c.Weight, c.VIP, model.WithID(c.ID))
}

// Placement is one expected client to vehicle assignment.
type Placement struct {
	Client  string `yaml:"client"`
	Vehicle string `yaml:"vehicle"`
}

type Expected struct {
	// RegistrationErrors counts entities refused by construction or the registry.
	RegistrationErrors int         `yaml:"registration_errors"`
	Vehicles           int         `yaml:"vehicles"`
	Clients            int         `yaml:"clients"`
	Skipped            bool        `yaml:"skipped"`
	Distributed        []Placement `yaml:"distributed"`
	NotDistributed     []string    `yaml:"not_distributed"`
	VehiclesUsed       int         `yaml:"vehicles_used"`
	LoadPercentage     float64     `yaml:"load_percentage"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Vehicles    []VehicleDef `yaml:"vehicles"`
	Clients     []ClientDef  `yaml:"clients"`
	// Runs repeats the allocation; the last report is checked.
	Runs           int      `yaml:"runs,omitempty"`
	ResetBeforeRun bool     `yaml:"reset_before_run,omitempty"`
	Expected       Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Runs <= 0 {
		sc.Runs = 1
	}
	return &sc, nil
}
