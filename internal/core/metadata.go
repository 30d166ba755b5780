package core

// Well-known metadata keys. Sources and validators may consult additional
// keys; only these participate in engine behavior.
const (
	// MetaTitle is the document title, used by validators for plausibility checks.
	MetaTitle = "title"
	// MetaPublisher contributes to the history group key.
	MetaPublisher = "publisher"
	// MetaYear contributes to the history group key.
	MetaYear = "year"
)

// Metadata carries descriptive fields about the requested document.
//
// It is passed through unchanged to sources and validators. The engine
// itself reads only the well-known keys above.
type Metadata map[string]string

// GroupKey derives the history-cache grouping key from the metadata.
//
// Documents from the same publisher and year tend to be reachable through
// the same sources, so past performance for the pair is a useful prior.
// Returns "" when either field is absent; an empty group key disables
// history-informed reordering for the run.
func (m Metadata) GroupKey() string {
	pub := m[MetaPublisher]
	year := m[MetaYear]
	if pub == "" || year == "" {
		return ""
	}
	return pub + "|" + year
}

// Clone returns an independent copy of the metadata.
// A nil receiver yields a nil map.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	cp := make(Metadata, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
