// Package validate decides whether a candidate artifact truly matches the
// requested document before the engine accepts it as a success.
package validate

import (
	"context"

	"go.uber.org/zap"

	"paperchase/internal/core"
)

// Gate checks a candidate artifact against the original request.
//
// A false verdict discards the candidate and records a local failure for
// the producing source; it is never an engine-level error.
type Gate interface {
	// Validate reports whether the file at path matches the request.
	Validate(ctx context.Context, path string, meta core.Metadata, key, sourceName string) (bool, error)
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(ctx context.Context, path string, meta core.Metadata, key, sourceName string) (bool, error)

// Validate calls f.
func (f GateFunc) Validate(ctx context.Context, path string, meta core.Metadata, key, sourceName string) (bool, error) {
	return f(ctx, path, meta, key, sourceName)
}

// AcceptAll approves every candidate. Useful when no checker is configured.
func AcceptAll() Gate {
	return GateFunc(func(context.Context, string, core.Metadata, string, string) (bool, error) {
		return true, nil
	})
}

// failOpenGate wraps a Gate so internal failures count as valid.
type failOpenGate struct {
	inner Gate
	log   *zap.Logger
}

// FailOpen wraps gate with fail-open semantics: an error or panic inside
// the inner gate is treated as a pass.
//
// This is a deliberate availability-over-correctness tradeoff: a broken
// checker must not block artifacts that real sources worked to produce.
// Rejections still require an affirmative false verdict.
func FailOpen(gate Gate, log *zap.Logger) Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &failOpenGate{inner: gate, log: log}
}

// Validate applies the inner gate, converting internal failures to passes.
func (g *failOpenGate) Validate(ctx context.Context, path string, meta core.Metadata, key, sourceName string) (ok bool, err error) {
	if g.inner == nil {
		return true, nil
	}
	defer func() {
		if r := recover(); r != nil {
			g.log.Warn("validator panicked, failing open",
				zap.String("source", sourceName),
				zap.String("key", key),
				zap.Any("panic", r))
			ok, err = true, nil
		}
	}()

	ok, innerErr := g.inner.Validate(ctx, path, meta, key, sourceName)
	if innerErr != nil {
		g.log.Warn("validator errored, failing open",
			zap.String("source", sourceName),
			zap.String("key", key),
			zap.Error(innerErr))
		return true, nil
	}
	return ok, nil
}

var _ Gate = (*failOpenGate)(nil)
var _ Gate = GateFunc(nil)
