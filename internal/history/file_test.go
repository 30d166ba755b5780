package history

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	s := NewFileStore(path, nil)
	s.RecordAttempt("acme|2019", "mirror-a", true)
	s.RecordAttempt("acme|2019", "mirror-b", false)

	// A fresh store over the same file must see the recorded outcomes.
	s2 := NewFileStore(path, nil)
	got := s2.BestMethods("acme|2019", 10)
	want := []string{"mirror-a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BestMethods after reload = %v, want %v", got, want)
	}
	if got := s2.BestMethods("acme|2019", 0); !reflect.DeepEqual(got, want) {
		t.Fatalf("BestMethods with topN=0 = %v, want the full ranking %v", got, want)
	}
}

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "history.json")
	s := NewFileStore(path, nil)
	if got := s.BestMethods("g", 5); len(got) != 0 {
		t.Fatalf("missing file should yield empty ranking, got %v", got)
	}
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := NewFileStore(path, nil)
	if got := s.BestMethods("g", 5); len(got) != 0 {
		t.Fatalf("corrupt file should yield empty ranking, got %v", got)
	}

	// Recording over a corrupt file replaces it with a valid snapshot.
	s.RecordAttempt("g", "a", true)
	s2 := NewFileStore(path, nil)
	if got := s2.BestMethods("g", 5); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("recovered snapshot = %v, want [a]", got)
	}
}

func TestFileStore_CreatesDirectoryOnRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.json")
	s := NewFileStore(path, nil)
	s.RecordAttempt("g", "a", true)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("history file not created: %v", err)
	}
}
