package core

// Terminal error messages surfaced on unsuccessful results. These strings
// are part of the engine's contract with callers and tests; do not reword.
const (
	// ErrMsgCancelled reports a run ended by an explicit cancellation request.
	ErrMsgCancelled = "Cancelled by user"
	// ErrMsgExhausted reports a run in which every tier ran without a winner.
	ErrMsgExhausted = "All acquisition methods failed"
)

// Result is the terminal, immutable summary of one acquisition run.
// Exactly one Result is produced per run, success or not.
//
// Success with an empty ArtifactPath means the request was satisfied
// externally: the need was met through a side channel and no artifact was
// downloaded.
type Result struct {
	// RunID uniquely identifies the run.
	RunID string

	// Success reports whether the document was acquired (or externally
	// satisfied).
	Success bool

	// Source is the name of the winning source; empty unless Success with
	// a committed artifact.
	Source string

	// ArtifactPath is the committed destination path; empty on failure and
	// on external satisfaction.
	ArtifactPath string

	// Err is the terminal error message for unsuccessful runs
	// (ErrMsgCancelled or ErrMsgExhausted); empty on success.
	Err string

	// Meta echoes the request metadata for diagnostics.
	Meta Metadata

	// Attempts maps every completed source invocation to its outcome.
	// At most one entry is OutcomeSuccess.
	Attempts map[string]Outcome
}
