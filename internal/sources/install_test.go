package sources

import (
	"testing"

	"paperchase/internal/acquire"
	"paperchase/internal/config"
	"paperchase/internal/core"
)

func TestInstallRegistersConfiguredSources(t *testing.T) {
	cfg := &config.Config{
		Library: config.LibraryConfig{Path: t.TempDir()},
		Mirrors: []config.MirrorConfig{
			{Name: "institutional", URL: "https://mirror.example.edu/fetch", Tier: "fast"},
			{Name: "public", URL: "https://mirror.example.org/fetch", Enabled: boolPtr(false)},
		},
	}

	o := acquire.NewOrchestrator(acquire.SchedulerConfig{}, nil, nil, nil, nil)
	if err := Install(o, cfg, nil); err != nil {
		t.Fatalf("Install: %v", err)
	}

	all := o.RegisteredSources()
	if len(all) != 3 {
		t.Fatalf("registered %d sources, want 3", len(all))
	}
	byName := map[string]acquire.Source{}
	for _, s := range all {
		byName[s.Name] = s
	}

	lib, ok := byName["local-library"]
	if !ok || lib.Tier != core.TierFast || !lib.Enabled {
		t.Fatalf("local-library = %+v", lib)
	}
	inst := byName["institutional"]
	if inst.Tier != core.TierFast || !inst.Enabled {
		t.Fatalf("institutional = %+v", inst)
	}
	pub := byName["public"]
	if pub.Tier != core.TierMedium || pub.Enabled {
		t.Fatalf("public = %+v, want disabled medium-tier mirror", pub)
	}
}

func TestInstallWithoutLibrarySkipsIt(t *testing.T) {
	cfg := &config.Config{
		Mirrors: []config.MirrorConfig{{Name: "public", URL: "https://mirror.example.org/fetch"}},
	}
	o := acquire.NewOrchestrator(acquire.SchedulerConfig{}, nil, nil, nil, nil)
	if err := Install(o, cfg, nil); err != nil {
		t.Fatalf("Install: %v", err)
	}
	for _, s := range o.RegisteredSources() {
		if s.Name == "local-library" {
			t.Fatalf("local-library registered without a configured path")
		}
	}
}

func TestInstallRejectsNameCollisions(t *testing.T) {
	cfg := &config.Config{
		Library: config.LibraryConfig{Path: t.TempDir()},
		Mirrors: []config.MirrorConfig{{Name: "local-library", URL: "https://mirror.example.org/fetch"}},
	}
	o := acquire.NewOrchestrator(acquire.SchedulerConfig{}, nil, nil, nil, nil)
	if err := Install(o, cfg, nil); err == nil {
		t.Fatalf("Install accepted a source name collision")
	}
}

func boolPtr(b bool) *bool { return &b }
