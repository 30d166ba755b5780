package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"paperchase/internal/core"
	"paperchase/internal/history"
	"paperchase/internal/journal"
	"paperchase/internal/validate"
)

// SchedulerConfig tunes one tier invocation.
type SchedulerConfig struct {
	// PoolSize bounds the number of concurrently running sources.
	PoolSize int

	// PollInterval is the scheduler's bounded wait between supervision
	// passes. Cancellation and external satisfaction are observed within
	// one interval.
	PollInterval time.Duration

	// MinArtifactSize is the plausibility floor applied before the
	// validation gate; smaller candidates are discarded outright.
	MinArtifactSize int64

	// TierTimeouts overrides the group wall-clock timeout per tier.
	TierTimeouts map[core.Tier]time.Duration

	// DefaultTimeout is the group timeout for tiers without an override.
	DefaultTimeout time.Duration
}

const (
	defaultPoolSize        = 3
	defaultPollInterval    = 200 * time.Millisecond
	defaultMinArtifactSize = 4096
	defaultGroupTimeout    = 90 * time.Second
)

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	if c.PoolSize <= 0 {
		c.PoolSize = defaultPoolSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.MinArtifactSize <= 0 {
		c.MinArtifactSize = defaultMinArtifactSize
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = defaultGroupTimeout
	}
	return c
}

func (c SchedulerConfig) timeoutFor(tier core.Tier) time.Duration {
	if d, ok := c.TierTimeouts[tier]; ok && d > 0 {
		return d
	}
	return c.DefaultTimeout
}

// TierScheduler races one tier's ordered, enabled sources under a bounded
// worker pool and commits at most one validated winner.
//
// Failure semantics: a source throwing, returning false, or failing
// validation is always a local, recoverable failure. The only conditions
// that end a tier without exhausting it are explicit cancellation, external
// satisfaction, a committed winner, and the group timeout.
type TierScheduler struct {
	cfg  SchedulerConfig
	gate validate.Gate
	hist history.Store
	sink journal.Sink
	log  *zap.Logger
}

// NewTierScheduler creates a scheduler. A nil gate accepts everything, a
// nil history store records into memory, a nil sink discards events.
//
// The gate is wrapped with fail-open semantics here so every caller gets
// the same availability-over-correctness behavior.
func NewTierScheduler(cfg SchedulerConfig, gate validate.Gate, hist history.Store, sink journal.Sink, log *zap.Logger) *TierScheduler {
	if gate == nil {
		gate = validate.AcceptAll()
	}
	if hist == nil {
		hist = history.NewMemory()
	}
	if sink == nil {
		sink = journal.NopSink{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TierScheduler{
		cfg:  cfg.withDefaults(),
		gate: validate.FailOpen(gate, log),
		hist: hist,
		sink: sink,
		log:  log,
	}
}

// TierOutcome summarizes one tier invocation. A zero outcome means the
// tier exhausted its sources without a winner.
type TierOutcome struct {
	// Winner is the accepted source name; empty if none.
	Winner string

	// ArtifactPath is the committed destination; empty unless Winner is set.
	ArtifactPath string

	// Satisfied reports the external-satisfaction flag was observed.
	Satisfied bool

	// Cancelled reports the cancellation flag was observed.
	Cancelled bool

	// TimedOut reports the group timeout fired.
	TimedOut bool

	// Attempts holds one record per completed invocation, in the
	// deterministic judging order.
	Attempts []core.AttemptRecord
}

// attemptResult is one completed source invocation awaiting judgment.
type attemptResult struct {
	index   int
	name    string
	tmp     string
	ok      bool
	err     error
	elapsed time.Duration
}

// Run races the ordered sources for the request.
//
// Concurrency model:
//   - A dispatcher launches sources in order, bounded by a semaphore of
//     PoolSize. Both flags are re-checked before every launch; once either
//     is set, unstarted sources are skipped.
//   - Completions are delivered on a buffered channel and judged by the
//     supervision loop in post-reorder position order, so simultaneous
//     successes resolve to exactly one deterministic winner.
//   - The loop waits in short bounded intervals, never indefinitely on a
//     single source.
func (s *TierScheduler) Run(
	ctx context.Context,
	runID string,
	tier core.Tier,
	ordered []Source,
	req core.Request,
	cancelled, satisfied *core.Flag,
	progress ProgressFunc,
) TierOutcome {
	var out TierOutcome
	if len(ordered) == 0 {
		return out
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tierCtx, stop := context.WithTimeout(ctx, s.cfg.timeoutFor(tier))
	defer stop()

	results := make(chan attemptResult, len(ordered))
	dispatchDone := make(chan struct{})
	var launched atomic.Int32

	go s.dispatch(tierCtx, runID, tier, ordered, req, cancelled, satisfied, results, dispatchDone, &launched, progress)

	groupKey := req.Meta.GroupKey()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	received := 0
	var pending []attemptResult
	dispatchClosed := false

	// reap drains results still owed by in-flight sources after the loop
	// returns, discarding their private temp files. It runs detached so
	// the tier result is returned promptly while stragglers run out their
	// own timeouts.
	reap := func() {
		stop()
		already := received
		go func() {
			<-dispatchDone
			total := int(launched.Load())
			for i := already; i < total; i++ {
				r := <-results
				_ = os.Remove(r.tmp)
			}
		}()
	}

	for {
		// Collect whatever has completed without blocking.
	drain:
		for {
			select {
			case r := <-results:
				received++
				pending = append(pending, r)
			default:
				break drain
			}
		}

		// Flags override everything still pending, including completed
		// results that have not been judged yet.
		if cancelled.IsSet() {
			out.Cancelled = true
			discardAll(pending)
			reap()
			return out
		}
		if satisfied.IsSet() {
			out.Satisfied = true
			discardAll(pending)
			reap()
			return out
		}

		// Judge completed attempts by post-reorder position, not arrival
		// order, so a same-window tie resolves deterministically.
		sort.Slice(pending, func(i, j int) bool { return pending[i].index < pending[j].index })
		for _, r := range pending {
			rec, countable := s.judge(ctx, runID, tier, r, req, out.Winner != "")
			out.Attempts = append(out.Attempts, rec)
			if countable && groupKey != "" {
				s.hist.RecordAttempt(groupKey, rec.Source, rec.Outcome == core.OutcomeSuccess)
			}
			if rec.Outcome == core.OutcomeSuccess {
				out.Winner = r.name
				out.ArtifactPath = req.Destination
			}
		}
		pending = pending[:0]

		if out.Winner != "" {
			// Single commit point passed; stop the rest of the tier.
			reap()
			return out
		}

		select {
		case <-dispatchDone:
			dispatchClosed = true
		default:
		}
		if dispatchClosed && received == int(launched.Load()) {
			if tierCtx.Err() != nil && len(out.Attempts) < len(ordered) {
				out.TimedOut = errors.Is(tierCtx.Err(), context.DeadlineExceeded)
			}
			reap()
			return out
		}

		if tierCtx.Err() != nil {
			// Group timeout (or parent cancellation): in-flight work is
			// abandoned and, being undetermined, leaves no records.
			out.TimedOut = errors.Is(tierCtx.Err(), context.DeadlineExceeded)
			if out.TimedOut {
				s.log.Info("tier timed out",
					zap.String("tier", tier.String()),
					zap.Int("completed", len(out.Attempts)),
					zap.Int32("launched", launched.Load()))
				journal.SafeRecord(s.sink, journal.Event{
					Kind: journal.EventTierTimedOut, RunID: runID,
					Tier: tier.String(), Time: time.Now(),
				})
			}
			reap()
			return out
		}

		// Wait out one polling interval. Completions accumulate on the
		// results channel and are judged together at the next pass,
		// which is what makes the positional tie-break meaningful.
		select {
		case <-ticker.C:
		case <-tierCtx.Done():
		}
	}
}

// dispatch launches sources in order under the pool bound. It returns when
// every source has been launched, a flag was raised, or the tier context
// ended; dispatchDone is closed either way.
func (s *TierScheduler) dispatch(
	ctx context.Context,
	runID string,
	tier core.Tier,
	ordered []Source,
	req core.Request,
	cancelled, satisfied *core.Flag,
	results chan<- attemptResult,
	dispatchDone chan<- struct{},
	launched *atomic.Int32,
	progress ProgressFunc,
) {
	defer close(dispatchDone)

	sem := semaphore.NewWeighted(int64(s.cfg.PoolSize))
	for i := range ordered {
		src := ordered[i]
		if cancelled.IsSet() || satisfied.IsSet() {
			return
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			return
		}
		// Re-check after the wait: a flag raised while the pool was full
		// must skip every unstarted source.
		if cancelled.IsSet() || satisfied.IsSet() {
			sem.Release(1)
			return
		}

		launched.Add(1)
		notifyProgress(progress, StageSource, fmt.Sprintf("trying source %s", src.Name))
		journal.SafeRecord(s.sink, journal.Event{
			Kind: journal.EventSourceStarted, RunID: runID,
			Tier: tier.String(), Source: src.Name, Time: time.Now(),
		})

		go func(idx int, src Source) {
			defer sem.Release(1)
			start := time.Now()
			tmp := privateDestination(req.Destination, src.Name)
			ok, err := runSource(ctx, src, req, tmp)
			results <- attemptResult{
				index:   idx,
				name:    src.Name,
				tmp:     tmp,
				ok:      ok,
				err:     err,
				elapsed: time.Since(start),
			}
		}(i, src)
	}
}

// runSource invokes the source, converting panics into failure outcomes.
func runSource(ctx context.Context, src Source, req core.Request, tmp string) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("source %q panicked: %v", src.Name, r)
		}
	}()
	return src.Run(ctx, req.Key, tmp, req.Meta)
}

// judge classifies one completed invocation and, for the first acceptable
// candidate, performs the atomic commit. haveWinner short-circuits later
// candidates in the same judging batch: their artifacts are discarded.
//
// countable reports whether the record is performance signal for the
// history cache. A candidate discarded only because a lower-positioned
// source committed first was never validated; its attempt record still
// surfaces in the run result and journal, but writing it to the cache as a
// failure would penalize a source that may well have produced a good
// artifact.
func (s *TierScheduler) judge(ctx context.Context, runID string, tier core.Tier, r attemptResult, req core.Request, haveWinner bool) (rec core.AttemptRecord, countable bool) {
	rec = core.AttemptRecord{Source: r.name, Outcome: core.OutcomeFailure, Duration: r.elapsed}
	countable = true
	detail := "failure"

	switch {
	case r.err != nil:
		s.log.Debug("source failed", zap.String("source", r.name), zap.Error(r.err))
		_ = os.Remove(r.tmp)
	case !r.ok:
		_ = os.Remove(r.tmp)
	case haveWinner:
		// A lower-positioned source already committed in this batch.
		detail = "discarded"
		countable = false
		_ = os.Remove(r.tmp)
	default:
		if s.accept(ctx, r, req) {
			rec.Outcome = core.OutcomeSuccess
			detail = "validated"
		} else {
			detail = "rejected"
		}
	}

	journal.SafeRecord(s.sink, journal.Event{
		Kind: journal.EventSourceFinished, RunID: runID,
		Tier: tier.String(), Source: r.name, Detail: detail, Time: time.Now(),
	})
	return rec, countable
}

// accept verifies a reported success and commits it.
//
// Checks, in order: the private file exists, it meets the plausibility
// floor, and the validation gate approves it. Passing all three promotes
// the file onto the shared destination with a single atomic rename.
func (s *TierScheduler) accept(ctx context.Context, r attemptResult, req core.Request) bool {
	fi, err := os.Stat(r.tmp)
	if err != nil {
		s.log.Debug("source reported success without artifact",
			zap.String("source", r.name), zap.Error(err))
		return false
	}
	if fi.Size() < s.cfg.MinArtifactSize {
		s.log.Debug("artifact below plausibility floor",
			zap.String("source", r.name),
			zap.Int64("size", fi.Size()),
			zap.Int64("min", s.cfg.MinArtifactSize))
		_ = os.Remove(r.tmp)
		return false
	}

	ok, _ := s.gate.Validate(ctx, r.tmp, req.Meta, req.Key, r.name)
	if !ok {
		s.log.Debug("artifact rejected by validation gate", zap.String("source", r.name))
		_ = os.Remove(r.tmp)
		return false
	}

	if err := os.Rename(r.tmp, req.Destination); err != nil {
		s.log.Warn("artifact commit failed",
			zap.String("source", r.name),
			zap.String("destination", req.Destination),
			zap.Error(err))
		_ = os.Remove(r.tmp)
		return false
	}
	return true
}

// discardAll removes the private temp files of completed invocations that
// were overridden before judgment. They yield no attempt records.
func discardAll(pending []attemptResult) {
	for _, r := range pending {
		_ = os.Remove(r.tmp)
	}
}

// privateDestination returns an invocation-private temp path in the
// destination's directory, keeping the final rename on one filesystem.
func privateDestination(dest, source string) string {
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.%s.part", base, source, uuid.NewString()[:8]))
}
