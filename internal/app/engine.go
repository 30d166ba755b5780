package app

import (
	"go.uber.org/zap"

	"paperchase/internal/acquire"
	"paperchase/internal/config"
	"paperchase/internal/history"
	"paperchase/internal/journal"
	"paperchase/internal/sources"
	"paperchase/internal/validate"
)

// buildEngine assembles a fully wired orchestrator from configuration:
// scheduler tuning, persistent history, the run journal, the default
// validation gate and every configured source.
func buildEngine(cfg *config.Config, log *zap.Logger) (*acquire.Orchestrator, func(), error) {
	schedCfg := acquire.SchedulerConfig{
		PoolSize:        cfg.Scheduler.PoolSize,
		PollInterval:    cfg.Scheduler.PollInterval.Std(),
		MinArtifactSize: cfg.Scheduler.MinArtifactSize,
		TierTimeouts:    cfg.Scheduler.SchedulerTimeouts(),
		DefaultTimeout:  cfg.Scheduler.DefaultTimeout.Std(),
	}

	var hist history.Store
	if cfg.HistoryPath != "" {
		hist = history.NewFileStore(cfg.HistoryPath, log)
	} else {
		hist = history.NewMemory()
	}

	var sink journal.Sink = journal.NopSink{}
	cleanup := func() {}
	if cfg.JournalPath != "" {
		fileSink := journal.NewFileSink(cfg.JournalPath, log)
		sink = fileSink
		cleanup = func() { _ = fileSink.Close() }
	}

	gate := &validate.BasicGate{
		MinSize:    cfg.Scheduler.MinArtifactSize,
		RequirePDF: cfg.RequirePDF,
	}

	engine := acquire.NewOrchestrator(schedCfg, gate, hist, sink, log)
	if err := sources.Install(engine, cfg, log); err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}
