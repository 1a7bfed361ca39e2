// Package progress provides the cooperative-cancellation and progress-
// reporting contract shared by the Initializer and the Tile Scheduler, plus
// a default in-memory implementation.
package progress

import "sync/atomic"

// Sink is the progress-reporting and cancellation contract a long-running
// engine operation reports through. BeginTask declares how many work units
// the operation expects to perform; Worked advances the counter; Done marks
// completion; IsCanceled is polled by the caller to decide whether to stop
// early; Sub carves out a sub-budget of the parent's remaining span for a
// nested sub-operation (e.g. the 10%/90% split between Initialize and
// Execute).
type Sink interface {
	BeginTask(label string, totalUnits int)
	Worked(n int)
	Done()
	IsCanceled() bool
	Sub(fraction float64) Sink
}

// Default is a simple in-memory Sink. Cancellation is an explicit atomic
// flag set via Cancel, independent of any context.Context — callers that
// prefer context-based cancellation can still poll ctx.Done() directly;
// the scheduler honors both.
type Default struct {
	label      string
	totalUnits int
	worked     int64
	canceled   *atomic.Bool
	parent     *Default
	budget     float64 // this sink's share of the root's total progress.
}

// New returns a ready-to-use root Sink with its own independent cancel flag.
func New() *Default {
	return &Default{canceled: &atomic.Bool{}, budget: 1.0}
}

// BeginTask records the task label and total unit count for this sink.
func (d *Default) BeginTask(label string, totalUnits int) {
	d.label = label
	d.totalUnits = totalUnits
	atomic.StoreInt64(&d.worked, 0)
}

// Worked advances the completed-unit counter by n.
func (d *Default) Worked(n int) {
	atomic.AddInt64(&d.worked, int64(n))
}

// Done marks the sink's task as finished.
func (d *Default) Done() {
	atomic.StoreInt64(&d.worked, int64(d.totalUnits))
}

// IsCanceled reports whether this sink (or any ancestor) has been canceled.
func (d *Default) IsCanceled() bool {
	if d.canceled.Load() {
		return true
	}
	if d.parent != nil {
		return d.parent.IsCanceled()
	}
	return false
}

// Cancel marks this sink (and therefore every descendant created via Sub)
// as canceled.
func (d *Default) Cancel() {
	d.canceled.Store(true)
}

// Sub returns a child Sink representing a fraction of d's remaining budget.
// Cancellation propagates from parent to child, never the other way.
func (d *Default) Sub(fraction float64) Sink {
	return &Default{
		canceled: &atomic.Bool{},
		parent:   d,
		budget:   d.budget * fraction,
	}
}

// WorkedUnits returns the number of units completed so far.
func (d *Default) WorkedUnits() int {
	return int(atomic.LoadInt64(&d.worked))
}
