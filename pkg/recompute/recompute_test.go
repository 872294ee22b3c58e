package recompute

import (
	"context"
	"sync"
	"testing"
)

func TestTriggerRunsSynchronously(t *testing.T) {
	runs := 0
	c := New(func(context.Context) { runs++ })

	c.Trigger(context.Background())

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if c.State() != StateIdle {
		t.Errorf("State() = %s, want idle after Trigger returns", c.State())
	}
	if got := c.Stats(); got.Runs != 1 || got.Coalesced != 0 || got.Suppressed != 0 {
		t.Errorf("Stats() = %+v, want exactly one run", got)
	}
}

func TestReentrantTriggersCoalesce(t *testing.T) {
	ctx := context.Background()
	runs := 0
	var c *Coordinator
	c = New(func(ctx context.Context) {
		runs++
		if runs == 1 {
			// Side effects of the first pass fire three more triggers.
			// They must fold into a single trailing rerun, not recurse.
			c.Trigger(ctx)
			c.Trigger(ctx)
			c.Trigger(ctx)
		}
	})

	c.Trigger(ctx)

	if runs != 2 {
		t.Errorf("runs = %d, want 2 (initial pass plus one coalesced rerun)", runs)
	}
	if got := c.Stats(); got.Runs != 2 || got.Coalesced != 3 {
		t.Errorf("Stats() = %+v, want Runs 2 Coalesced 3", got)
	}
}

func TestRerunChainDrains(t *testing.T) {
	ctx := context.Background()
	runs := 0
	var c *Coordinator
	c = New(func(ctx context.Context) {
		runs++
		if runs < 3 {
			c.Trigger(ctx)
		}
	})

	c.Trigger(ctx)

	// Pass 1 requests a rerun, pass 2 requests another; pass 3 is quiet.
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
	if c.State() != StateIdle {
		t.Errorf("State() = %s, want idle", c.State())
	}
}

func TestStateDuringRun(t *testing.T) {
	var seen State
	var c *Coordinator
	c = New(func(context.Context) {
		seen = c.State()
	})

	c.Trigger(context.Background())

	if seen != StateRunning {
		t.Errorf("state during pass = %s, want running", seen)
	}
}

func TestBulkLoadSuppressesAndForcesOne(t *testing.T) {
	ctx := context.Background()
	runs := 0
	c := New(func(context.Context) { runs++ })

	c.BeginBulkLoad()
	c.Trigger(ctx)
	c.Trigger(ctx)
	c.Trigger(ctx)

	if runs != 0 {
		t.Fatalf("runs = %d during bulk load, want 0", runs)
	}

	c.EndBulkLoad(ctx)

	if runs != 1 {
		t.Errorf("runs = %d after EndBulkLoad, want exactly 1", runs)
	}
	if got := c.Stats(); got.Suppressed != 3 {
		t.Errorf("Stats() = %+v, want Suppressed 3", got)
	}
}

func TestEndBulkLoadWithoutBegin(t *testing.T) {
	runs := 0
	c := New(func(context.Context) { runs++ })

	c.EndBulkLoad(context.Background())

	if runs != 0 {
		t.Errorf("runs = %d, want 0 (EndBulkLoad without Begin is a no-op)", runs)
	}
}

func TestBulkLoadStartedMidPass(t *testing.T) {
	ctx := context.Background()
	runs := 0
	var c *Coordinator
	c = New(func(ctx context.Context) {
		runs++
		if runs == 1 {
			c.BeginBulkLoad()
			c.Trigger(ctx) // swallowed, not queued as a rerun
		}
	})

	c.Trigger(ctx)

	if runs != 1 {
		t.Fatalf("runs = %d, want 1 (no trailing rerun once bulk load began)", runs)
	}

	c.EndBulkLoad(ctx)

	if runs != 2 {
		t.Errorf("runs = %d after EndBulkLoad, want 2", runs)
	}
}

func TestConcurrentTriggers(t *testing.T) {
	ctx := context.Background()
	const triggers = 64

	var mu sync.Mutex
	runs := 0
	c := New(func(context.Context) {
		mu.Lock()
		runs++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < triggers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Trigger(ctx)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if runs < 1 || runs > triggers {
		t.Errorf("runs = %d, want between 1 and %d", runs, triggers)
	}
	if c.State() != StateIdle {
		t.Errorf("State() = %s, want idle after all triggers drain", c.State())
	}
}
