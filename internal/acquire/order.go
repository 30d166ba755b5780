package acquire

// ReorderByHistory returns the invocation order for one tier's sources
// given the history cache's ranked names for the run's group key.
//
// Policy (a stable partial sort):
//   - Sources named in ranked come first, in rank order.
//   - All remaining sources follow in lexical name order.
//
// Ranked names with no matching source are ignored. The result is a pure
// function of its inputs, so identical cache states reproduce identical
// invocation start orders across runs.
//
// This function is pure: it does not mutate its arguments.
func ReorderByHistory(sources []Source, ranked []string) []Source {
	byName := make(map[string]Source, len(sources))
	for _, src := range sources {
		byName[src.Name] = src
	}

	out := make([]Source, 0, len(sources))
	taken := make(map[string]bool, len(ranked))
	for _, name := range ranked {
		if taken[name] {
			continue
		}
		src, ok := byName[name]
		if !ok {
			continue
		}
		taken[name] = true
		out = append(out, src)
	}

	rest := make([]Source, 0, len(sources)-len(out))
	for _, src := range sources {
		if !taken[src.Name] {
			rest = append(rest, src)
		}
	}
	sortSourcesByName(rest)

	return append(out, rest...)
}
