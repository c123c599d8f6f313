// Package events defines the allocation related events emitted on the event bus.
//
// Available event types:
//   - RunEvent: an allocation run finished (or was skipped), with its placements
//   - PlacementEvent: outcome for a single client, carried by RunEvent
//   - ResetEvent: all vehicle loads were cleared
package events
