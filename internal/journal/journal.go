// Package journal records the lifecycle of acquisition runs.
//
// The journal is observational only: recording must never panic, never
// return an error and never affect engine behavior. Consumers use it to
// answer "what did this run try, in what order, and how did each attempt
// end" after the fact.
package journal

import (
	"sync"
	"time"
)

// EventKind discriminates journal events. The string values appear in
// persisted journals; do not rename.
type EventKind string

const (
	EventRunStarted     EventKind = "RunStarted"
	EventTierStarted    EventKind = "TierStarted"
	EventSourceStarted  EventKind = "SourceStarted"
	EventSourceFinished EventKind = "SourceFinished"
	EventTierTimedOut   EventKind = "TierTimedOut"
	EventRunFinished    EventKind = "RunFinished"
)

// Event is a single lifecycle occurrence within a run.
type Event struct {
	Kind EventKind `json:"kind"`

	// RunID ties the event to one acquisition run.
	RunID string `json:"run_id"`

	// Tier is set for tier- and source-level events.
	Tier string `json:"tier,omitempty"`

	// Source is set for source-level events.
	Source string `json:"source,omitempty"`

	// Detail carries a short human-readable qualifier
	// (e.g. "failure", "validated", "cancelled").
	Detail string `json:"detail,omitempty"`

	// Time is the wall-clock occurrence time.
	Time time.Time `json:"time"`
}

// Sink is the minimal interface the engine depends on.
//
// Record must be inert:
//   - must not panic (implementations should guard themselves)
//   - must not return errors
//
// The caller must assume Record may be a no-op.
type Sink interface {
	Record(event Event)
}

// NopSink discards all events.
type NopSink struct{}

// Record discards the event.
func (NopSink) Record(Event) {}

// SafeRecord records an event and guarantees inertness even if the sink is
// buggy. It intentionally swallows panics.
func SafeRecord(s Sink, event Event) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.Record(event)
}

// Recorder is a concurrency-safe in-memory collector, used by tests and by
// callers that want to inspect a run after completion.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Record appends the event. It never panics and never returns an error.
func (r *Recorder) Record(event Event) {
	if r == nil {
		return
	}
	defer func() {
		_ = recover()
	}()

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all recorded events.
func (r *Recorder) Snapshot() []Event {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
