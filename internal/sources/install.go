package sources

import (
	"fmt"

	"go.uber.org/zap"

	"paperchase/internal/acquire"
	"paperchase/internal/config"
	"paperchase/internal/core"
)

// Install registers the configured sources with the engine.
//
// Registration is explicit and happens exactly once per engine: the core
// depends only on the registry abstraction and never discovers sources on
// its own. A registration failure (duplicate name, invalid tier) aborts
// installation; it indicates a configuration defect, not a runtime fault.
func Install(o *acquire.Orchestrator, cfg *config.Config, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.Library.Path != "" {
		lib := &LocalLibrary{Root: cfg.Library.Path}
		if err := o.RegisterSource("local-library", lib.Run, core.TierFast, true); err != nil {
			return fmt.Errorf("registering local library: %w", err)
		}
		log.Debug("registered source",
			zap.String("name", "local-library"),
			zap.String("tier", core.TierFast.String()))
	}

	for _, m := range cfg.Mirrors {
		mirror := &HTTPMirror{BaseURL: m.URL, Log: log.Named(m.Name)}
		if err := o.RegisterSource(m.Name, mirror.Run, m.MirrorTier(), m.IsEnabled()); err != nil {
			return fmt.Errorf("registering mirror %q: %w", m.Name, err)
		}
		log.Debug("registered source",
			zap.String("name", m.Name),
			zap.String("tier", m.MirrorTier().String()),
			zap.Bool("enabled", m.IsEnabled()))
	}
	return nil
}
