package validate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeCandidate(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing candidate: %v", err)
	}
	return path
}

func TestBasicGate_RejectsHTML(t *testing.T) {
	g := &BasicGate{}
	for _, payload := range [][]byte{
		[]byte("<!DOCTYPE html><html><body>captcha</body></html>"),
		[]byte("  \n<html lang=\"en\"><head></head></html>"),
		[]byte("<!doctype HTML>blocked"),
	} {
		path := writeCandidate(t, "page.pdf", payload)
		ok, err := g.Validate(context.Background(), path, nil, "k", "s")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatalf("HTML payload %q must be rejected", payload[:20])
		}
	}
}

func TestBasicGate_AcceptsPDF(t *testing.T) {
	g := &BasicGate{RequirePDF: true}
	content := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte{0x20}, 64)...)
	path := writeCandidate(t, "doc.pdf", content)

	ok, err := g.Validate(context.Background(), path, nil, "k", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("PDF payload must be accepted")
	}
}

func TestBasicGate_RequirePDFRejectsOther(t *testing.T) {
	g := &BasicGate{RequirePDF: true}
	path := writeCandidate(t, "doc.bin", []byte("PK\x03\x04 epub-ish bytes here"))

	ok, _ := g.Validate(context.Background(), path, nil, "k", "s")
	if ok {
		t.Fatalf("non-PDF must be rejected when RequirePDF is set")
	}
}

func TestBasicGate_MinSize(t *testing.T) {
	g := &BasicGate{MinSize: 100}
	path := writeCandidate(t, "tiny.pdf", []byte("%PDF-1.7"))

	ok, _ := g.Validate(context.Background(), path, nil, "k", "s")
	if ok {
		t.Fatalf("undersized candidate must be rejected")
	}
}

func TestBasicGate_MissingFileIsError(t *testing.T) {
	g := &BasicGate{}
	ok, err := g.Validate(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"), nil, "k", "s")
	if ok {
		t.Fatalf("missing file must not validate")
	}
	if err == nil {
		t.Fatalf("missing file should surface an error for the fail-open wrapper to judge")
	}
}
