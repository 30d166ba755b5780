// Package config provides configuration loading for the acquisition engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"paperchase/internal/core"
)

// EnvPrefix is the environment variable prefix for CLI-level settings.
const EnvPrefix = "PAPERCHASE"

// Duration wraps time.Duration with YAML string forms like "200ms" or "2m".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MirrorConfig describes one HTTP mirror source.
type MirrorConfig struct {
	// Name is the unique source name used in registration and history.
	Name string `yaml:"name"`

	// URL is the mirror endpoint without a trailing slash.
	URL string `yaml:"url"`

	// Tier assigns the priority band; defaults to medium.
	Tier string `yaml:"tier,omitempty"`

	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// LibraryConfig describes the local archive source.
type LibraryConfig struct {
	// Path is the archive directory; empty disables the source.
	Path string `yaml:"path,omitempty"`
}

// SchedulerSettings tunes the tier scheduler.
type SchedulerSettings struct {
	// PoolSize bounds concurrent sources per tier; defaults to 3.
	PoolSize int `yaml:"poolSize,omitempty"`

	// PollInterval is the supervision wait; defaults to 200ms.
	PollInterval Duration `yaml:"pollInterval,omitempty"`

	// MinArtifactSize is the plausibility floor in bytes; defaults to 4096.
	MinArtifactSize int64 `yaml:"minArtifactSize,omitempty"`

	// TierTimeouts overrides the group timeout per tier
	// (keys: fast, medium, slow).
	TierTimeouts map[string]Duration `yaml:"tierTimeouts,omitempty"`

	// DefaultTimeout applies to tiers without an override; defaults to 90s.
	DefaultTimeout Duration `yaml:"defaultTimeout,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Scheduler SchedulerSettings `yaml:"scheduler,omitempty"`

	// HistoryPath locates the source-performance snapshot; empty keeps
	// history in memory for the process lifetime.
	HistoryPath string `yaml:"historyPath,omitempty"`

	// JournalPath locates the run journal (JSON lines); empty disables it.
	JournalPath string `yaml:"journalPath,omitempty"`

	// RequirePDF makes the built-in validation gate reject non-PDF
	// artifacts.
	RequirePDF bool `yaml:"requirePdf,omitempty"`

	Mirrors []MirrorConfig `yaml:"mirrors,omitempty"`
	Library LibraryConfig  `yaml:"library,omitempty"`
}

// Option configures the loader.
type Option func(*loaderConfig) error

type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file.
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}
		cfg.path = filepath.Clean(path)
		return nil
	}
}

// Load builds a Config from the given options and validates it.
// Without options it returns the defaults.
func Load(opts ...Option) (*Config, error) {
	var lc loaderConfig
	for _, opt := range opts {
		if err := opt(&lc); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if lc.path != "" {
		data, err := os.ReadFile(lc.path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural consistency. Defaults are applied by the
// consuming layer, not here, so a zero value stays recognizably unset.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Mirrors))
	for i, m := range c.Mirrors {
		if m.Name == "" {
			return fmt.Errorf("mirrors[%d]: name is required", i)
		}
		if seen[m.Name] {
			return fmt.Errorf("mirrors[%d]: duplicate name %q", i, m.Name)
		}
		seen[m.Name] = true
		if m.URL == "" {
			return fmt.Errorf("mirror %q: url is required", m.Name)
		}
		if m.Tier != "" && !core.Tier(m.Tier).Valid() {
			return fmt.Errorf("mirror %q: unknown tier %q", m.Name, m.Tier)
		}
	}
	for tier := range c.Scheduler.TierTimeouts {
		if !core.Tier(tier).Valid() {
			return fmt.Errorf("tierTimeouts: unknown tier %q", tier)
		}
	}
	if c.Scheduler.PoolSize < 0 {
		return fmt.Errorf("scheduler.poolSize must not be negative")
	}
	return nil
}

// MirrorTier returns the mirror's tier, defaulting to medium.
func (m MirrorConfig) MirrorTier() core.Tier {
	if m.Tier == "" {
		return core.TierMedium
	}
	return core.Tier(m.Tier)
}

// IsEnabled reports the effective enabled flag (default true).
func (m MirrorConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// SchedulerTimeouts converts the per-tier overrides into engine form.
func (s SchedulerSettings) SchedulerTimeouts() map[core.Tier]time.Duration {
	if len(s.TierTimeouts) == 0 {
		return nil
	}
	out := make(map[core.Tier]time.Duration, len(s.TierTimeouts))
	for tier, d := range s.TierTimeouts {
		out[core.Tier(tier)] = d.Std()
	}
	return out
}
