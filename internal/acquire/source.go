package acquire

import (
	"context"
	"sort"
	"strings"
	"sync"

	"paperchase/internal/core"
)

// RunFunc performs a single acquisition attempt.
//
// dest is a private temporary path owned exclusively by this invocation;
// the engine promotes it to the shared destination only after validation.
// The function returns true when the source believes it produced the
// artifact at dest, or satisfied the request through a side channel.
//
// Implementations should honor ctx cancellation but are supervised by
// polling either way; an uncaught panic is converted into a failure
// outcome and can never abort the scheduler.
type RunFunc func(ctx context.Context, key, dest string, meta core.Metadata) (bool, error)

// Source is one independent strategy for obtaining the target document.
// All fields except Enabled are immutable after registration.
type Source struct {
	Name    string
	Tier    core.Tier
	Enabled bool
	Run     RunFunc
}

// Registry owns every registered source. Sources are addressed by unique
// name and grouped into the three static tiers; within a tier the
// registration order is preserved.
type Registry struct {
	mu     sync.Mutex
	byName map[string]*Source
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Source)}
}

// Register adds a source. It returns a *ConfigurationError on an empty
// name, a nil run function, an invalid tier, or a duplicate name; a failed
// registration leaves all prior registrations untouched.
func (r *Registry) Register(name string, run RunFunc, tier core.Tier, enabled bool) error {
	if strings.TrimSpace(name) == "" {
		return configErrf(ErrInvalidRegistration, "source name is required")
	}
	if run == nil {
		return configErrf(ErrInvalidRegistration, "source %q has no run function", name)
	}
	if !tier.Valid() {
		return configErrf(ErrInvalidTier, "source %q: tier %q", name, tier)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return configErrf(ErrDuplicateSource, "source %q", name)
	}
	r.byName[name] = &Source{Name: name, Tier: tier, Enabled: enabled, Run: run}
	r.order = append(r.order, name)
	return nil
}

// ListByTier returns copies of the tier's sources in registration order,
// enabled or not.
func (r *Registry) ListByTier(tier core.Tier) []Source {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Source
	for _, name := range r.order {
		src := r.byName[name]
		if src.Tier == tier {
			out = append(out, *src)
		}
	}
	return out
}

// All returns copies of every source in registration order.
func (r *Registry) All() []Source {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.byName[name])
	}
	return out
}

// Enable sets the source's enabled flag. Unknown names are a silent no-op
// so callers may act optimistically.
func (r *Registry) Enable(name string) { r.setEnabled(name, true) }

// Disable clears the source's enabled flag. Unknown names are a silent no-op.
func (r *Registry) Disable(name string) { r.setEnabled(name, false) }

func (r *Registry) setEnabled(name string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if src, ok := r.byName[name]; ok {
		src.Enabled = enabled
	}
}

// enabledByTier returns copies of the tier's enabled sources in
// registration order.
func (r *Registry) enabledByTier(tier core.Tier) []Source {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Source
	for _, name := range r.order {
		src := r.byName[name]
		if src.Tier == tier && src.Enabled {
			out = append(out, *src)
		}
	}
	return out
}

// sortSourcesByName orders sources lexically in place.
func sortSourcesByName(sources []Source) {
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
}
