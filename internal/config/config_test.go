package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"paperchase/internal/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paperchase.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutOptions(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheduler.PoolSize != 0 || cfg.HistoryPath != "" || len(cfg.Mirrors) != 0 {
		t.Fatalf("zero config = %+v, want recognizably unset", cfg)
	}
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  poolSize: 5
  pollInterval: 150ms
  minArtifactSize: 2048
  defaultTimeout: 2m
  tierTimeouts:
    fast: 10s
    slow: 5m
historyPath: /var/lib/paperchase/history.json
journalPath: /var/log/paperchase/journal.jsonl
requirePdf: true
mirrors:
  - name: institutional
    url: https://mirror.example.edu/fetch
    tier: fast
  - name: public
    url: https://mirror.example.org/fetch
    enabled: false
library:
  path: /srv/library
`)

	cfg, err := Load(WithConfigPath(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scheduler.PoolSize != 5 {
		t.Fatalf("PoolSize = %d", cfg.Scheduler.PoolSize)
	}
	if cfg.Scheduler.PollInterval.Std() != 150*time.Millisecond {
		t.Fatalf("PollInterval = %v", cfg.Scheduler.PollInterval.Std())
	}
	if cfg.Scheduler.DefaultTimeout.Std() != 2*time.Minute {
		t.Fatalf("DefaultTimeout = %v", cfg.Scheduler.DefaultTimeout.Std())
	}
	timeouts := cfg.Scheduler.SchedulerTimeouts()
	if timeouts[core.TierFast] != 10*time.Second || timeouts[core.TierSlow] != 5*time.Minute {
		t.Fatalf("tier timeouts = %v", timeouts)
	}
	if !cfg.RequirePDF {
		t.Fatalf("RequirePDF = false")
	}
	if cfg.Library.Path != "/srv/library" {
		t.Fatalf("Library.Path = %q", cfg.Library.Path)
	}

	if len(cfg.Mirrors) != 2 {
		t.Fatalf("mirrors = %+v", cfg.Mirrors)
	}
	inst, pub := cfg.Mirrors[0], cfg.Mirrors[1]
	if inst.MirrorTier() != core.TierFast || !inst.IsEnabled() {
		t.Fatalf("institutional mirror = %+v", inst)
	}
	if pub.MirrorTier() != core.TierMedium {
		t.Fatalf("public mirror tier = %v, want the medium default", pub.MirrorTier())
	}
	if pub.IsEnabled() {
		t.Fatalf("public mirror enabled, want explicit false honored")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "scheduler:\n  pollInterval: fast-ish\n")
	if _, err := Load(WithConfigPath(path)); err == nil {
		t.Fatalf("Load accepted an unparsable duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml"))); err == nil {
		t.Fatalf("Load accepted a missing file")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "unnamed mirror",
			cfg:  Config{Mirrors: []MirrorConfig{{URL: "https://m.example"}}},
			want: "name is required",
		},
		{
			name: "duplicate mirror name",
			cfg: Config{Mirrors: []MirrorConfig{
				{Name: "m", URL: "https://a.example"},
				{Name: "m", URL: "https://b.example"},
			}},
			want: "duplicate name",
		},
		{
			name: "mirror without url",
			cfg:  Config{Mirrors: []MirrorConfig{{Name: "m"}}},
			want: "url is required",
		},
		{
			name: "unknown mirror tier",
			cfg:  Config{Mirrors: []MirrorConfig{{Name: "m", URL: "https://m.example", Tier: "turbo"}}},
			want: "unknown tier",
		},
		{
			name: "unknown timeout tier",
			cfg:  Config{Scheduler: SchedulerSettings{TierTimeouts: map[string]Duration{"turbo": Duration(time.Second)}}},
			want: "unknown tier",
		},
		{
			name: "negative pool size",
			cfg:  Config{Scheduler: SchedulerSettings{PoolSize: -1}},
			want: "must not be negative",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if err == nil {
				t.Fatalf("Validate accepted %+v", tc.cfg)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestWithConfigPathRequiresPath(t *testing.T) {
	if _, err := Load(WithConfigPath("")); err == nil {
		t.Fatalf("empty path accepted")
	}
}
