package acquire

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTier marks a registration against an unknown tier.
	ErrInvalidTier = errors.New("invalid tier")
	// ErrDuplicateSource marks a registration reusing an existing name.
	ErrDuplicateSource = errors.New("duplicate source")
	// ErrInvalidRegistration marks a structurally invalid registration
	// (empty name, nil run function).
	ErrInvalidRegistration = errors.New("invalid registration")
)

// ConfigurationError wraps registration failures. It is the only error the
// engine ever raises to callers; every runtime source failure is absorbed
// into attempt bookkeeping instead.
type ConfigurationError struct {
	Kind error
	Msg  string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ConfigurationError) Unwrap() error { return e.Kind }

func configErrf(kind error, format string, args ...any) error {
	return &ConfigurationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
