// Package acquire implements the tiered acquisition engine.
//
// It is intentionally split into:
//   - Immutable registration data (Registry): named sources grouped into
//     three static tiers, ordered by registration.
//   - Run execution (Orchestrator, TierScheduler): concurrent, history
//     informed racing of one tier's sources with an at-most-one-winner
//     commit protocol.
//
// The engine guarantees that each source runs at most once per run, that at
// most one successful result is ever produced, and that the destination
// path is written exactly once, atomically, by the winning source.
package acquire
