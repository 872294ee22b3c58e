// Package recompute serializes layout recomputation.
//
// Every parameter change in an interactive session wants to rerun the full
// layout pass, and changes can arrive from inside another pass's side
// effects. The Coordinator guarantees the pass runs at most once at a time
// and that no trigger is lost: triggers during a run coalesce into exactly
// one trailing rerun, and a bulk-load mode suppresses recomputation
// entirely until the load finishes, then forces a single pass.
package recompute

import (
	"context"
	"sync"
)

// State is the coordinator's execution state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Stats counts coordinator activity, mostly for tests and status displays.
type Stats struct {
	Runs       int64 // completed computation passes
	Coalesced  int64 // triggers folded into a trailing rerun
	Suppressed int64 // triggers swallowed by bulk-load mode
}

// Coordinator runs a computation function with single-flight semantics and
// one pending retry. Trigger is synchronous: when the coordinator is idle
// the computation runs on the caller's goroutine before Trigger returns,
// including any trailing rerun that accumulated meanwhile.
//
// All methods are safe for concurrent use, and the computation function may
// itself call Trigger without deadlocking; such re-entrant triggers simply
// coalesce.
type Coordinator struct {
	fn func(context.Context)

	mu    sync.Mutex
	state State
	rerun bool
	bulk  bool
	stats Stats
}

// New returns a Coordinator driving fn. The function is responsible for
// its own error reporting; the coordinator only schedules it.
func New(fn func(context.Context)) *Coordinator {
	return &Coordinator{fn: fn, state: StateIdle}
}

// Trigger requests a computation pass. Idle: the pass runs immediately on
// this goroutine. Running: the request coalesces into a single trailing
// rerun. Bulk load active: the request is swallowed.
func (c *Coordinator) Trigger(ctx context.Context) {
	c.mu.Lock()
	if c.bulk {
		c.stats.Suppressed++
		c.mu.Unlock()
		return
	}
	if c.state == StateRunning {
		c.rerun = true
		c.stats.Coalesced++
		c.mu.Unlock()
		return
	}
	c.state = StateRunning
	c.mu.Unlock()

	c.run(ctx)
}

// BeginBulkLoad enters bulk-load mode: every Trigger until EndBulkLoad is
// swallowed. Safe to call while a pass is running; the pass finishes but
// schedules no trailing rerun.
func (c *Coordinator) BeginBulkLoad() {
	c.mu.Lock()
	c.bulk = true
	c.mu.Unlock()
}

// EndBulkLoad leaves bulk-load mode and forces exactly one computation
// pass, regardless of how many triggers were swallowed. Calling it outside
// bulk-load mode is a no-op.
func (c *Coordinator) EndBulkLoad(ctx context.Context) {
	c.mu.Lock()
	if !c.bulk {
		c.mu.Unlock()
		return
	}
	c.bulk = false
	if c.state == StateRunning {
		// A pass is still draining; fold the forced pass into its rerun.
		c.rerun = true
		c.mu.Unlock()
		return
	}
	c.state = StateRunning
	c.mu.Unlock()

	c.run(ctx)
}

// State returns the current execution state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns a snapshot of the activity counters.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// run executes passes until no rerun is pending, then returns to idle.
// Callers must have moved the state to Running while holding the lock.
func (c *Coordinator) run(ctx context.Context) {
	for {
		c.fn(ctx)

		c.mu.Lock()
		c.stats.Runs++
		if c.rerun && !c.bulk {
			c.rerun = false
			c.mu.Unlock()
			continue
		}
		// Entering bulk load mid-pass drops the pending rerun; EndBulkLoad
		// forces its own pass instead.
		c.rerun = false
		c.state = StateIdle
		c.mu.Unlock()
		return
	}
}
