package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore persists outcome counts as a single JSON document:
//
//	{
//	  "<group-key>": {
//	    "<source-name>": {"success": N, "failure": M}
//	  }
//	}
//
// Writes are atomic (write temp file, fsync, rename into place), so a crash
// mid-write yields the previous consistent snapshot rather than corruption.
//
// In keeping with the Store contract, every I/O failure is logged and
// swallowed: a broken history file degrades to an empty ranking.
type FileStore struct {
	path string
	log  *zap.Logger

	mu     sync.Mutex
	loaded bool
	groups map[string]map[string]Counts
}

// NewFileStore creates a store backed by the JSON file at path.
// The file and its directory are created lazily on first record.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{path: path, log: log}
}

// BestMethods returns the ranked source names for the group key.
func (s *FileStore) BestMethods(groupKey string, topN int) []string {
	if s == nil || groupKey == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	ranked := rankSources(s.groups[groupKey])
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// RecordAttempt adds one outcome and rewrites the snapshot.
func (s *FileStore) RecordAttempt(groupKey, source string, success bool) {
	if s == nil || groupKey == "" || source == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	group, ok := s.groups[groupKey]
	if !ok {
		group = make(map[string]Counts)
		s.groups[groupKey] = group
	}
	c := group[source]
	if success {
		c.Success++
	} else {
		c.Failure++
	}
	group[source] = c

	if err := s.flushLocked(); err != nil {
		s.log.Warn("history write failed",
			zap.String("path", s.path),
			zap.String("group_key", groupKey),
			zap.Error(err))
	}
}

// ensureLoaded reads the snapshot once. A missing or unreadable file starts
// the store empty; the condition is logged, not returned.
func (s *FileStore) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.groups = make(map[string]map[string]Counts)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("history read failed", zap.String("path", s.path), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, &s.groups); err != nil {
		s.log.Warn("history file corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		s.groups = make(map[string]map[string]Counts)
	}
}

// flushLocked writes the snapshot atomically. Caller holds s.mu.
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.groups, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	_ = tmp.Sync() // best-effort durability
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("committing history file: %w", err)
	}
	return nil
}
