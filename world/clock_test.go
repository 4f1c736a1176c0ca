package world

import (
	"sync"
	"testing"
	"time"
)

func TestAdvanceTickBarrier(t *testing.T) {
	w := New(4, 4)
	const pool = 3

	// IDLE(0) -> ADVANCING -> IDLE(1).
	if !w.AdvanceTick(pool) {
		t.Fatal("first advance failed with an idle barrier")
	}
	if w.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", w.Tick())
	}
	if w.Running() != pool {
		t.Fatalf("running count = %d, want %d", w.Running(), pool)
	}

	// Workers mid-tick: the swap must fail and the tick must not move.
	w.TickDone()
	w.TickDone() // 2 of 3 reported
	if w.AdvanceTick(pool) {
		t.Fatal("advance succeeded with a worker still running")
	}
	if w.Tick() != 1 {
		t.Errorf("failed advance changed tick to %d", w.Tick())
	}

	// Last worker reports: next refresh advances by exactly 1.
	w.TickDone()
	if !w.AdvanceTick(pool) {
		t.Fatal("advance failed after all workers reported")
	}
	if w.Tick() != 2 {
		t.Errorf("tick = %d, want 2", w.Tick())
	}
	if w.Running() != pool {
		t.Errorf("running count reset to %d, want %d", w.Running(), pool)
	}
}

func TestAdvanceTickRespectsPause(t *testing.T) {
	w := New(4, 4)
	w.Pause()
	if w.AdvanceTick(2) {
		t.Fatal("advance succeeded while paused")
	}
	w.Resume()
	if !w.AdvanceTick(2) {
		t.Fatal("advance failed after resume")
	}
}

func TestWaitTickWakes(t *testing.T) {
	w := New(4, 4)

	woke := make(chan int64, 1)
	go func() {
		tick, ok := w.WaitTick(0)
		if !ok {
			woke <- -1
			return
		}
		woke <- tick
	}()

	// Give the waiter a moment to block, then advance.
	time.Sleep(10 * time.Millisecond)
	if !w.AdvanceTick(1) {
		t.Fatal("advance failed")
	}

	select {
	case tick := <-woke:
		if tick != 1 {
			t.Fatalf("waiter woke at tick %d, want 1", tick)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter never woke after tick advance")
	}
}

func TestWaitTickReturnsImmediatelyWhenStale(t *testing.T) {
	w := New(4, 4)
	w.AdvanceTick(1)

	done := make(chan struct{})
	go func() {
		// Waiting on an already-passed tick must not block.
		if tick, ok := w.WaitTick(0); !ok || tick != 1 {
			t.Errorf("WaitTick(0) = %d, %v; want 1, true", tick, ok)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitTick blocked on a stale tick value")
	}
}

func TestCloseWakesWaiters(t *testing.T) {
	w := New(4, 4)

	var wg sync.WaitGroup
	results := make(chan bool, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := w.WaitTick(0)
			results <- ok
		}()
	}

	time.Sleep(10 * time.Millisecond)
	w.Close()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiters not woken by Close")
	}
	close(results)
	for ok := range results {
		if ok {
			t.Error("WaitTick reported ok=true after Close")
		}
	}
}

// TestBarrierWithRealWorkers runs a small pool of goroutines through a few
// hundred ticks and checks the clock never skips or repeats.
func TestBarrierWithRealWorkers(t *testing.T) {
	w := New(4, 4)
	const pool = 4
	const ticks = 300

	var wg sync.WaitGroup
	for i := 0; i < pool; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := int64(0)
			for {
				tick, ok := w.WaitTick(last)
				if !ok {
					return
				}
				if tick != last+1 {
					t.Errorf("worker observed tick jump %d -> %d", last, tick)
				}
				last = tick
				w.TickDone()
			}
		}()
	}

	advanced := 0
	for advanced < ticks {
		if w.AdvanceTick(pool) {
			advanced++
		} else {
			// Host never blocks; this is the dropped-frame path.
			time.Sleep(time.Microsecond)
		}
	}

	// Drain the final tick so Running returns to 0, then shut down.
	for w.Running() != 0 {
		time.Sleep(time.Microsecond)
	}
	w.Close()
	wg.Wait()

	if w.Tick() != ticks {
		t.Fatalf("tick = %d after %d advances", w.Tick(), ticks)
	}
}

func TestRenderBuffer(t *testing.T) {
	t.Run("single buffered shares memory", func(t *testing.T) {
		b := NewRenderBuffer(8, 8, false)
		wp := b.Write()
		wp[0] = 0xff
		b.Present()
		if b.Read()[0] != 0xff {
			t.Error("read did not observe write in single-buffered mode")
		}
	})

	t.Run("double buffered swaps on present", func(t *testing.T) {
		b := NewRenderBuffer(8, 8, true)
		b.Write()[0] = 0xaa
		if b.Read()[0] == 0xaa {
			t.Error("write visible before Present in double-buffered mode")
		}
		b.Present()
		if b.Read()[0] != 0xaa {
			t.Error("write not visible after Present")
		}
	})
}
