package sources

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"paperchase/internal/core"
)

// LocalLibrary serves documents from a previously archived directory.
//
// The library holds one file per canonical key, named <sanitized key> with
// any extension. It is the cheapest possible source and normally sits in
// the fast tier.
type LocalLibrary struct {
	// Root is the archive directory.
	Root string
}

// Run copies the archived document for key into dest, if one exists.
// A missing entry is an ordinary miss, not an error.
func (l *LocalLibrary) Run(_ context.Context, key, dest string, _ core.Metadata) (bool, error) {
	if l.Root == "" {
		return false, nil
	}

	stem := sanitizeKey(key)
	matches, err := filepath.Glob(filepath.Join(l.Root, stem+".*"))
	if err != nil {
		return false, fmt.Errorf("scanning library: %w", err)
	}
	if exact := filepath.Join(l.Root, stem); fileExists(exact) {
		matches = append([]string{exact}, matches...)
	}
	if len(matches) == 0 {
		return false, nil
	}

	src, err := os.Open(matches[0])
	if err != nil {
		return false, fmt.Errorf("opening library entry: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", dest, err)
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return false, fmt.Errorf("copying library entry: %w", err)
	}
	return true, nil
}

// sanitizeKey maps a canonical key onto a filesystem-safe stem.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(key)
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
