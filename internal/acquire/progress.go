package acquire

// Stage labels passed to ProgressFunc.
const (
	StageTier   = "tier"
	StageSource = "source"
	StageDone   = "done"
)

// ProgressFunc receives best-effort notifications at tier and source
// boundaries. It may be nil. A panicking callback is swallowed and never
// affects the run.
type ProgressFunc func(stage, message string)

// notifyProgress invokes fn, guaranteeing inertness.
func notifyProgress(fn ProgressFunc, stage, message string) {
	if fn == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	fn(stage, message)
}
