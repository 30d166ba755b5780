// Package core provides the domain models for tiered document acquisition.
//
// # Design Principles
//
// All structures in this package adhere to the following constraints:
//
//  1. Results and attempt records are immutable once produced.
//  2. Run-scoped flags are monotonic: they move from unset to set exactly
//     once and never back.
//  3. Ordering-relevant data (tiers, attempt outcomes) is deterministic so
//     identical inputs reproduce identical runs.
//
// # Core Types
//
// Tier: a priority band grouping sources by expected latency and reliability.
// Metadata: free-form descriptive fields about the requested document.
// Request: one acquisition request (key, destination, metadata).
// AttemptRecord: the outcome of one completed source invocation.
// Result: the single terminal summary of one acquisition run.
// Flag: a run-scoped monotonic boolean shared by reference.
package core
