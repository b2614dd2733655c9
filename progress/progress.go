// Package progress provides a lightweight tracker that keeps aggregated
// execution counters (steps total, completed, failed) for a single workflow
// run. The tracker instance lives in the run context; every component that
// receives the context can atomically update the counters via the Delta
// helper without requiring a global registry.
package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the
// orchestrator. The fields are signed and can be either positive (increment)
// or negative (decrement).
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Running   int
}

// Progress keeps aggregated step counters for a workflow run. It is safe for
// concurrent use.
type Progress struct {
	// Identification, informative only, filled when the run starts.
	RunID     string
	Workflow  string
	StartedAt time.Time

	// Counters, modified via Update().
	TotalSteps     int
	CompletedSteps int
	FailedSteps    int
	RunningSteps   int

	sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta to the tracker. If an onChange callback
// has been registered it is invoked with a copy of the updated tracker
// outside the critical section, so the callback can perform slow operations
// (JSON encoding, I/O) without blocking the run.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.Lock()
	p.TotalSteps += d.Total
	p.CompletedSteps += d.Completed
	p.FailedSteps += d.Failed
	p.RunningSteps += d.Running
	callback := p.onChange
	snapshot := p.snapshot()
	p.Unlock()

	if callback != nil {
		callback(snapshot)
	}
}

// OnChange registers a callback invoked after every Update.
func (p *Progress) OnChange(callback func(Progress)) {
	p.Lock()
	defer p.Unlock()
	p.onChange = callback
}

// Snapshot returns a copy of the current counters.
func (p *Progress) Snapshot() Progress {
	p.Lock()
	defer p.Unlock()
	return p.snapshot()
}

func (p *Progress) snapshot() Progress {
	return Progress{
		RunID:          p.RunID,
		Workflow:       p.Workflow,
		StartedAt:      p.StartedAt,
		TotalSteps:     p.TotalSteps,
		CompletedSteps: p.CompletedSteps,
		FailedSteps:    p.FailedSteps,
		RunningSteps:   p.RunningSteps,
	}
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithProgress embeds the tracker in ctx.
func WithProgress(ctx context.Context, p *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the tracker, or nil when none is attached.
func FromContext(ctx context.Context) *Progress {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Progress); ok {
		return v
	}
	return nil
}
