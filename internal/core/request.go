package core

import (
	"errors"
	"strings"
)

// Request describes one acquisition: obtain the document identified by Key
// and place it at Destination.
//
// Destination is the only shared mutable resource of a run. It is written
// exactly once, by the winning source, via an atomic rename from a private
// temporary file.
type Request struct {
	// Key is the canonical identifier of the target document
	// (e.g. a DOI or an ISBN).
	Key string

	// Destination is the final artifact path.
	Destination string

	// Meta is the descriptive metadata passed through to sources and
	// validators.
	Meta Metadata
}

// Validate checks the request fields required by the engine.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Key) == "" {
		return errors.New("request key is required")
	}
	if strings.TrimSpace(r.Destination) == "" {
		return errors.New("request destination is required")
	}
	return nil
}
