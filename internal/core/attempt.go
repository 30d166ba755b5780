package core

import "time"

// Outcome is the terminal classification of one completed source invocation.
type Outcome string

const (
	// OutcomeSuccess means the source produced the accepted artifact (or
	// satisfied the request externally).
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure covers every recoverable failure: an error, a false
	// return, a panic, or a rejected artifact.
	OutcomeFailure Outcome = "failure"
)

// AttemptRecord is created exactly once per completed source invocation.
//
// Invocations cancelled mid-flight are undetermined and produce no record,
// so the history cache is never polluted with ambiguous signal.
type AttemptRecord struct {
	// Source is the registered source name.
	Source string

	// Outcome classifies the completed invocation.
	Outcome Outcome

	// Duration is the wall-clock time of the invocation.
	Duration time.Duration
}
