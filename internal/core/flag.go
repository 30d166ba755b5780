package core

import "sync/atomic"

// Flag is a run-scoped monotonic boolean shared by reference.
//
// It replaces process-wide mutable state with an explicit token passed into
// the scheduler and orchestrator, so concurrent runs stay independent and
// tests stay deterministic.
//
// Invariant: the flag moves from unset to set at most once and never back.
type Flag struct {
	v atomic.Bool
}

// NewFlag returns an unset flag.
func NewFlag() *Flag { return &Flag{} }

// Set raises the flag. Setting an already-set flag is a no-op.
func (f *Flag) Set() {
	if f == nil {
		return
	}
	f.v.Store(true)
}

// IsSet reports whether the flag has been raised.
func (f *Flag) IsSet() bool {
	if f == nil {
		return false
	}
	return f.v.Load()
}
