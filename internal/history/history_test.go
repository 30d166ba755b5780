package history

import (
	"reflect"
	"testing"
)

func TestMemory_BestMethods_RankingPolicy(t *testing.T) {
	m := NewMemory()
	// mirror-a: 3/4 successes, mirror-b: 1/1, mirror-c: 0/2.
	m.RecordAttempt("acme|2019", "mirror-a", true)
	m.RecordAttempt("acme|2019", "mirror-a", true)
	m.RecordAttempt("acme|2019", "mirror-a", true)
	m.RecordAttempt("acme|2019", "mirror-a", false)
	m.RecordAttempt("acme|2019", "mirror-b", true)
	m.RecordAttempt("acme|2019", "mirror-c", false)
	m.RecordAttempt("acme|2019", "mirror-c", false)

	got := m.BestMethods("acme|2019", 10)
	// b has a perfect ratio, a has more successes at a lower ratio, c has
	// no positive signal and is excluded.
	want := []string{"mirror-b", "mirror-a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BestMethods = %v, want %v", got, want)
	}
}

func TestMemory_BestMethods_TopNAndUnknownGroup(t *testing.T) {
	m := NewMemory()
	m.RecordAttempt("g", "a", true)
	m.RecordAttempt("g", "b", true)

	if got := m.BestMethods("g", 1); len(got) != 1 {
		t.Fatalf("topN=1 returned %d names", len(got))
	}
	// topN <= 0 means unlimited: callers ranking a subset (one tier of a
	// group that spans several) need the whole ranking.
	if got := m.BestMethods("g", 0); len(got) != 2 {
		t.Fatalf("topN=0 returned %v, want the full ranking", got)
	}
	if got := m.BestMethods("g", -1); len(got) != 2 {
		t.Fatalf("topN=-1 returned %v, want the full ranking", got)
	}
	if got := m.BestMethods("other", 5); len(got) != 0 {
		t.Fatalf("unknown group returned %v, want empty", got)
	}
	if got := m.BestMethods("", 5); got != nil {
		t.Fatalf("empty group key returned %v, want nil", got)
	}
}

func TestMemory_BestMethods_TieBreakAlphabetical(t *testing.T) {
	m := NewMemory()
	m.RecordAttempt("g", "zeta", true)
	m.RecordAttempt("g", "alpha", true)

	want := []string{"alpha", "zeta"}
	for i := 0; i < 5; i++ {
		if got := m.BestMethods("g", 10); !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: BestMethods = %v, want %v", i, got, want)
		}
	}
}

func TestMemory_RecordAttempt_IgnoresEmptyKeys(t *testing.T) {
	m := NewMemory()
	m.RecordAttempt("", "a", true)
	m.RecordAttempt("g", "", true)
	if got := m.BestMethods("g", 10); len(got) != 0 {
		t.Fatalf("empty names must not be recorded, got %v", got)
	}
}
