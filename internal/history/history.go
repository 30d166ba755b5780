// Package history ranks acquisition sources by past performance.
//
// Outcomes are grouped by a caller-derived group key (for example
// publisher|year) so ordering can be personalized per document family.
// Recording is fire-and-forget: implementations must never propagate
// storage errors to the engine.
package history

import (
	"sort"
	"sync"
)

// Store provides ranked lookup and recording of source outcomes.
//
// RecordAttempt is inert: it must not panic and has no error return.
// A storage failure degrades ranking quality, never the acquisition run.
type Store interface {
	// BestMethods returns up to topN source names for the group key,
	// best first; topN <= 0 returns the full ranking. The slice is empty
	// when no data exists.
	BestMethods(groupKey string, topN int) []string

	// RecordAttempt adds one completed outcome for (groupKey, source).
	RecordAttempt(groupKey, source string, success bool)
}

// Counts accumulates outcomes for one (group key, source) cell.
type Counts struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// total returns the number of recorded attempts.
func (c Counts) total() int { return c.Success + c.Failure }

// rankSources orders source names best-first.
//
// Ranking policy:
//  1. Higher success ratio first.
//  2. More total successes first (more evidence at equal ratio).
//  3. Name ascending, so identical stats reproduce identical order.
//
// Sources with zero successes are excluded: a source that has only ever
// failed carries no positive signal worth promoting.
func rankSources(group map[string]Counts) []string {
	names := make([]string, 0, len(group))
	for name, c := range group {
		if c.Success > 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a := group[names[i]]
		b := group[names[j]]
		ar := float64(a.Success) / float64(a.total())
		br := float64(b.Success) / float64(b.total())
		if ar != br {
			return ar > br
		}
		if a.Success != b.Success {
			return a.Success > b.Success
		}
		return names[i] < names[j]
	})
	return names
}

// Memory is an in-memory Store for tests and short-lived processes.
type Memory struct {
	mu     sync.Mutex
	groups map[string]map[string]Counts
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{groups: make(map[string]map[string]Counts)}
}

// BestMethods returns the ranked source names for the group key.
func (m *Memory) BestMethods(groupKey string, topN int) []string {
	if m == nil || groupKey == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ranked := rankSources(m.groups[groupKey])
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// RecordAttempt adds one outcome. Unknown group keys are created on demand.
func (m *Memory) RecordAttempt(groupKey, source string, success bool) {
	if m == nil || groupKey == "" || source == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	group, ok := m.groups[groupKey]
	if !ok {
		group = make(map[string]Counts)
		m.groups[groupKey] = group
	}
	c := group[source]
	if success {
		c.Success++
	} else {
		c.Failure++
	}
	group[source] = c
}
