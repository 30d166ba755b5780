package validate

import (
	"context"
	"errors"
	"testing"

	"paperchase/internal/core"
)

func TestFailOpen_ErrorCountsAsValid(t *testing.T) {
	// Fail-open is a deliberate availability-over-correctness tradeoff:
	// a broken checker must not block real artifacts. This behavior is
	// intentional and relied upon, not a defect.
	inner := GateFunc(func(context.Context, string, core.Metadata, string, string) (bool, error) {
		return false, errors.New("checker backend down")
	})

	ok, err := FailOpen(inner, nil).Validate(context.Background(), "/tmp/x", nil, "k", "s")
	if err != nil {
		t.Fatalf("fail-open gate must not return an error, got %v", err)
	}
	if !ok {
		t.Fatalf("internal checker error must fail open (valid)")
	}
}

func TestFailOpen_PanicCountsAsValid(t *testing.T) {
	inner := GateFunc(func(context.Context, string, core.Metadata, string, string) (bool, error) {
		panic("checker bug")
	})

	ok, err := FailOpen(inner, nil).Validate(context.Background(), "/tmp/x", nil, "k", "s")
	if err != nil {
		t.Fatalf("fail-open gate must not return an error, got %v", err)
	}
	if !ok {
		t.Fatalf("checker panic must fail open (valid)")
	}
}

func TestFailOpen_AffirmativeRejectionPassesThrough(t *testing.T) {
	inner := GateFunc(func(context.Context, string, core.Metadata, string, string) (bool, error) {
		return false, nil
	})

	ok, _ := FailOpen(inner, nil).Validate(context.Background(), "/tmp/x", nil, "k", "s")
	if ok {
		t.Fatalf("an affirmative false verdict must still reject")
	}
}

func TestFailOpen_NilInnerAccepts(t *testing.T) {
	ok, err := FailOpen(nil, nil).Validate(context.Background(), "/tmp/x", nil, "k", "s")
	if err != nil || !ok {
		t.Fatalf("nil inner gate: got (%v, %v), want (true, nil)", ok, err)
	}
}

func TestAcceptAll(t *testing.T) {
	ok, err := AcceptAll().Validate(context.Background(), "anything", nil, "k", "s")
	if err != nil || !ok {
		t.Fatalf("AcceptAll: got (%v, %v), want (true, nil)", ok, err)
	}
}
