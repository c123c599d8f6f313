package plugins

import "github.com/kilianp07/cargofleet/core/allocation"

func init() {
	_ = RegisterStrategy(DefaultStrategy, func(map[string]any) (allocation.Strategy, error) {
		return allocation.FirstFit{}, nil
	})
}
