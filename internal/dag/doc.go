// Package dag defines the deterministic domain model for calcflow's pipeline engine.
//
// It is intentionally split into:
//   - Immutable graph definition (TaskGraph): stages + dependency structure + stable GraphHash
//   - Mutable execution state (ExecutionState): runtime statuses per run
//
// The graph identity (GraphHash) is computed from stage definition content and
// canonicalized edge structure, making it invariant to insertion order.
package dag
