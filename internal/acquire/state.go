package acquire

import "fmt"

// RunState is the orchestrator's run-level state.
type RunState string

const (
	RunStateInit        RunState = "INIT"
	RunStateRunningTier RunState = "RUNNING_TIER"
	RunStateSucceeded   RunState = "SUCCEEDED"
	RunStateCancelled   RunState = "CANCELLED"
	RunStateSatisfied   RunState = "SATISFIED_EXTERNALLY"
	RunStateFailed      RunState = "FAILED"
)

// Terminal reports whether the state ends the run.
func (s RunState) Terminal() bool {
	switch s {
	case RunStateSucceeded, RunStateCancelled, RunStateSatisfied, RunStateFailed:
		return true
	default:
		return false
	}
}

// transitionRun validates a run-state transition and returns the new state.
//
// The caller supplies the current state so an illegal sequence is observable
// instead of silently overwritten.
func transitionRun(from, to RunState) (RunState, error) {
	if !isAllowedRunTransition(from, to) {
		return from, fmt.Errorf("disallowed run transition: %s -> %s", from, to)
	}
	return to, nil
}

func isAllowedRunTransition(from, to RunState) bool {
	switch from {
	case RunStateInit:
		// A run can end before any tier starts: cancellation raised
		// up front, no registered sources, or an invalid request.
		return to == RunStateRunningTier || to.Terminal()
	case RunStateRunningTier:
		return to == RunStateRunningTier || to.Terminal()
	default:
		return false
	}
}
