package validate

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"paperchase/internal/core"
)

// BasicGate is a cheap plausibility checker for downloaded documents.
//
// It rejects the obvious impostors sources tend to produce: empty files,
// HTML error pages and CAPTCHA interstitials served with a 200 status.
// It does not attempt to prove the document matches the request; deep
// content verification belongs to an external checker.
type BasicGate struct {
	// MinSize rejects files smaller than this many bytes. Zero disables
	// the check (the scheduler applies its own floor regardless).
	MinSize int64

	// RequirePDF rejects candidates without a PDF header. Leave false
	// when sources may deliver EPUB, DjVu or archives.
	RequirePDF bool
}

var htmlMarkers = [][]byte{
	[]byte("<!DOCTYPE html"),
	[]byte("<!doctype html"),
	[]byte("<html"),
}

// pdfMagic is the file header shared by every PDF version.
var pdfMagic = []byte("%PDF-")

// Validate performs the plausibility checks.
func (g *BasicGate) Validate(_ context.Context, path string, _ core.Metadata, _ string, _ string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat candidate: %w", err)
	}
	if g.MinSize > 0 && fi.Size() < g.MinSize {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open candidate: %w", err)
	}
	defer f.Close()

	head := make([]byte, 1024)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return false, fmt.Errorf("read candidate: %w", err)
	}
	head = head[:n]

	// An HTML payload where a document was expected is a blocked or
	// error response, whatever the status code claimed.
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	for _, marker := range htmlMarkers {
		if len(trimmed) >= len(marker) && bytes.EqualFold(trimmed[:len(marker)], marker) {
			return false, nil
		}
	}

	if g.RequirePDF && !bytes.HasPrefix(head, pdfMagic) {
		return false, nil
	}
	return true, nil
}

var _ Gate = (*BasicGate)(nil)
