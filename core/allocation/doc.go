// Package allocation assigns clients to vehicles.
//
// The default Strategy, FirstFit, is a single greedy pass in two tiers:
//  1. VIP clients, heaviest first, each loaded into the first vehicle (by
//     descending capacity) that still has room for the whole cargo.
//  2. Regular clients the same way, against whatever room the VIP tier left.
//
// Ties keep registration order. A client that fits nowhere is reported as
// not distributed; that is an expected outcome, not an error. The heuristic
// is not an optimal bin packing and VIP clients always go first even when a
// better overall packing exists.
//
// Manager wraps a Strategy with the fleet registry: it runs the strategy
// under the registry's exclusive lock, then records metrics, publishes
// events, appends the run log and optionally pushes the report over MQTT.
//
// Usage example:
//
//	reg := fleet.NewRegistry("Aero-Trans", log)
//	// register vehicles and clients...
//	mgr, err := allocation.NewManager(reg, allocation.FirstFit{}, sink, bus, log)
//	if err != nil {
//	        return err
//	}
//	rep, err := mgr.Run(ctx)
package allocation
