// Package sources provides the built-in acquisition source adapters and
// the explicit registration routine that installs them into the engine.
//
// The engine itself never discovers sources; an initialization routine
// outside the core registers each one by name.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"paperchase/internal/core"
)

// HTTPMirror fetches the document from a mirror endpoint by canonical key.
//
// The mirror is expected to answer GET <BaseURL>/<escaped key> with the
// artifact bytes. Transient failures (5xx, network errors) are retried
// with exponential backoff; 4xx answers are permanent for the attempt.
type HTTPMirror struct {
	// BaseURL is the mirror endpoint without a trailing slash.
	BaseURL string

	// Client defaults to a client with a 30s request timeout.
	Client *http.Client

	// MaxTries bounds attempts per invocation; defaults to 3.
	MaxTries uint

	// Log defaults to a nop logger.
	Log *zap.Logger
}

func (m *HTTPMirror) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (m *HTTPMirror) logger() *zap.Logger {
	if m.Log != nil {
		return m.Log
	}
	return zap.NewNop()
}

// Run downloads the document for key into dest.
//
// It satisfies the engine's source contract: the boolean reports whether
// an artifact was produced at dest; the error carries diagnostics only and
// is always treated as a recoverable, source-local failure.
func (m *HTTPMirror) Run(ctx context.Context, key, dest string, _ core.Metadata) (bool, error) {
	fetchURL := m.BaseURL + "/" + url.PathEscape(key)

	operation := func() (int64, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
		if err != nil {
			return 0, backoff.Permanent(err)
		}
		resp, err := m.client().Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// fall through to the download
		case resp.StatusCode >= 500:
			return 0, fmt.Errorf("mirror answered %s", resp.Status)
		default:
			return 0, backoff.Permanent(fmt.Errorf("mirror answered %s", resp.Status))
		}

		f, err := os.Create(dest)
		if err != nil {
			return 0, backoff.Permanent(fmt.Errorf("creating %s: %w", dest, err))
		}
		n, err := io.Copy(f, resp.Body)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dest)
			return 0, fmt.Errorf("downloading %s: %w", key, err)
		}
		return n, nil
	}

	maxTries := m.MaxTries
	if maxTries == 0 {
		maxTries = 3
	}
	n, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxTries))
	if err != nil {
		return false, fmt.Errorf("mirror %s: %w", m.BaseURL, err)
	}

	m.logger().Debug("mirror download complete",
		zap.String("url", fetchURL),
		zap.Int64("bytes", n))
	return true, nil
}
