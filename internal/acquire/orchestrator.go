package acquire

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paperchase/internal/core"
	"paperchase/internal/history"
	"paperchase/internal/journal"
	"paperchase/internal/validate"
)

// Orchestrator sequences the three tiers for one acquisition run, owns the
// run-scoped cancellation and external-satisfaction flags, aggregates
// attempt history and returns the terminal Result.
//
// Execute is exception-free: only source registration can return an error
// to the caller. Every runtime failure is absorbed into the Result's
// attempts map.
type Orchestrator struct {
	registry  *Registry
	scheduler *TierScheduler
	hist      history.Store
	sink      journal.Sink
	log       *zap.Logger

	mu            sync.Mutex
	active        *runFlags
	pendingCancel bool
}

// runFlags are the run-scoped monotonic tokens shared by reference with
// the scheduler. Fresh flags per run keep concurrent runs independent.
type runFlags struct {
	cancelled *core.Flag
	satisfied *core.Flag
}

// NewOrchestrator wires an engine. A nil gate accepts every artifact, a
// nil history store ranks from memory, a nil sink discards journal events.
func NewOrchestrator(cfg SchedulerConfig, gate validate.Gate, hist history.Store, sink journal.Sink, log *zap.Logger) *Orchestrator {
	if hist == nil {
		hist = history.NewMemory()
	}
	if sink == nil {
		sink = journal.NopSink{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		registry:  NewRegistry(),
		scheduler: NewTierScheduler(cfg, gate, hist, sink, log),
		hist:      hist,
		sink:      sink,
		log:       log,
	}
}

// RegisterSource adds a source to the registry. See Registry.Register.
func (o *Orchestrator) RegisterSource(name string, run RunFunc, tier core.Tier, enabled bool) error {
	return o.registry.Register(name, run, tier, enabled)
}

// RegisteredSources returns every source in registration order.
func (o *Orchestrator) RegisteredSources() []Source { return o.registry.All() }

// SourcesByTier returns the tier's sources in registration order.
func (o *Orchestrator) SourcesByTier(tier core.Tier) []Source { return o.registry.ListByTier(tier) }

// EnableSource enables a source by name; unknown names are a no-op.
func (o *Orchestrator) EnableSource(name string) { o.registry.Enable(name) }

// DisableSource disables a source by name; unknown names are a no-op.
func (o *Orchestrator) DisableSource(name string) { o.registry.Disable(name) }

// RequestCancel raises the cancellation token. During a run it stops the
// active run; between runs it is latched and consumed by the next Execute,
// which then returns without invoking any source.
func (o *Orchestrator) RequestCancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		o.active.cancelled.Set()
		return
	}
	o.pendingCancel = true
}

// SatisfyExternally raises the terminal-state flag: the caller's need was
// met through a side channel. Pending and future tier results are
// overridden even if a real artifact later arrives.
func (o *Orchestrator) SatisfyExternally() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		o.active.satisfied.Set()
	}
}

func (o *Orchestrator) beginRun() *runFlags {
	o.mu.Lock()
	defer o.mu.Unlock()
	f := &runFlags{cancelled: core.NewFlag(), satisfied: core.NewFlag()}
	if o.pendingCancel {
		f.cancelled.Set()
		o.pendingCancel = false
	}
	o.active = f
	return f
}

func (o *Orchestrator) endRun(f *runFlags) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == f {
		o.active = nil
	}
}

// Execute acquires the document identified by key into destination.
//
// Tiers run in fixed order (Fast, Medium, Slow); the first validated
// success short-circuits the rest. Both run flags are re-checked before
// each tier so a flag raised mid-tier stops the run promptly instead of
// waiting out later tiers.
//
// Exactly one Result is returned per call, well-formed whether or not the
// run succeeded.
func (o *Orchestrator) Execute(ctx context.Context, key, destination string, meta core.Metadata, progress ProgressFunc) core.Result {
	runID := uuid.NewString()
	flags := o.beginRun()
	defer o.endRun(flags)

	state := RunStateInit
	res := core.Result{
		RunID:    runID,
		Meta:     meta.Clone(),
		Attempts: make(map[string]core.Outcome),
	}
	req := core.Request{Key: key, Destination: destination, Meta: meta}

	finish := func(to RunState) core.Result {
		var err error
		state, err = transitionRun(state, to)
		if err != nil {
			// Transition bugs are engine defects; surface loudly in logs
			// but still hand the caller a terminal result.
			o.log.Error("run state machine violation", zap.Error(err))
		}
		journal.SafeRecord(o.sink, journal.Event{
			Kind: journal.EventRunFinished, RunID: runID,
			Detail: string(to), Time: time.Now(),
		})
		notifyProgress(progress, StageDone, string(to))
		o.log.Info("run finished",
			zap.String("run_id", runID),
			zap.String("key", key),
			zap.String("state", string(to)),
			zap.Bool("success", res.Success),
			zap.Int("attempts", len(res.Attempts)))
		return res
	}

	journal.SafeRecord(o.sink, journal.Event{
		Kind: journal.EventRunStarted, RunID: runID, Time: time.Now(),
	})
	o.log.Info("run started", zap.String("run_id", runID), zap.String("key", key))

	if err := req.Validate(); err != nil {
		res.Err = err.Error()
		return finish(RunStateFailed)
	}
	if flags.cancelled.IsSet() {
		res.Err = core.ErrMsgCancelled
		return finish(RunStateCancelled)
	}

	for _, tier := range core.TierOrder() {
		if ctx != nil && ctx.Err() != nil {
			res.Err = core.ErrMsgCancelled
			return finish(RunStateCancelled)
		}
		if flags.cancelled.IsSet() {
			res.Err = core.ErrMsgCancelled
			return finish(RunStateCancelled)
		}
		if flags.satisfied.IsSet() {
			res.Success = true
			return finish(RunStateSatisfied)
		}

		sources := o.registry.enabledByTier(tier)
		if len(sources) == 0 {
			continue
		}
		ordered := o.orderForRun(sources, meta)

		var err error
		state, err = transitionRun(state, RunStateRunningTier)
		if err != nil {
			o.log.Error("run state machine violation", zap.Error(err))
		}
		notifyProgress(progress, StageTier, fmt.Sprintf("tier %s: racing %d sources", tier, len(ordered)))
		journal.SafeRecord(o.sink, journal.Event{
			Kind: journal.EventTierStarted, RunID: runID,
			Tier: tier.String(), Time: time.Now(),
		})

		out := o.scheduler.Run(ctx, runID, tier, ordered, req, flags.cancelled, flags.satisfied, progress)
		for _, rec := range out.Attempts {
			res.Attempts[rec.Source] = rec.Outcome
		}

		switch {
		case out.Satisfied:
			res.Success = true
			return finish(RunStateSatisfied)
		case out.Cancelled:
			res.Err = core.ErrMsgCancelled
			return finish(RunStateCancelled)
		case out.Winner != "":
			res.Success = true
			res.Source = out.Winner
			res.ArtifactPath = out.ArtifactPath
			return finish(RunStateSucceeded)
		}
		// Tier exhausted or timed out: both yield no-success for the
		// tier, never an error, and the next tier proceeds.
	}

	if flags.satisfied.IsSet() {
		res.Success = true
		return finish(RunStateSatisfied)
	}
	if flags.cancelled.IsSet() {
		res.Err = core.ErrMsgCancelled
		return finish(RunStateCancelled)
	}

	res.Err = core.ErrMsgExhausted
	return finish(RunStateFailed)
}

// orderForRun applies history-informed ordering when the metadata yields a
// group key; otherwise registration order is kept as-is.
//
// The full group ranking is queried: the group key spans every tier, so a
// capped lookup could fill up with other tiers' sources and evict this
// tier's own cached names. ReorderByHistory drops the non-members.
func (o *Orchestrator) orderForRun(sources []Source, meta core.Metadata) []Source {
	groupKey := meta.GroupKey()
	if groupKey == "" {
		return sources
	}
	ranked := o.hist.BestMethods(groupKey, 0)
	ordered := ReorderByHistory(sources, ranked)
	if len(ranked) > 0 {
		o.log.Debug("history-informed ordering applied",
			zap.String("group_key", groupKey),
			zap.Strings("ranked", ranked))
	}
	return ordered
}
