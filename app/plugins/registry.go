package plugins

import (
	"github.com/kilianp07/cargofleet/core/allocation"
	"github.com/kilianp07/cargofleet/core/factory"
)

// DefaultStrategy is used when the configuration names none.
const DefaultStrategy = "first_fit"

var strategies = factory.NewRegistry[allocation.Strategy]()

// RegisterStrategy adds an allocation strategy factory identified by name.
func RegisterStrategy(name string, f factory.Factory[allocation.Strategy]) error {
	return strategies.Register(name, f)
}

// Strategies lists the registered strategy names.
func Strategies() []string { return strategies.Names() }

// NewStrategy builds the named strategy with its raw configuration.
func NewStrategy(name string, conf map[string]any) (allocation.Strategy, error) {
	if name == "" {
		name = DefaultStrategy
	}
	return strategies.Create(factory.ModuleConfig{Type: name, Conf: conf})
}
