package world

import "time"

// Tick clock and barrier. The host drives AdvanceTick once per display
// refresh; compute workers pair WaitTick with TickDone. The tick counter is
// the sole clock every worker synchronizes against, and it only ever moves
// forward by one.

// Tick returns the current tick value.
func (w *World) Tick() int64 { return w.tick.Load() }

// Running returns the count of compute workers still inside the current
// tick.
func (w *World) Running() int { return int(w.running.Load()) }

// AdvanceTick attempts the barrier transition for a pool of poolSize compute
// workers. In one atomic step it swaps the running count from 0 to poolSize;
// only if that succeeds does it increment the tick and wake every worker
// blocked on the previous value. It never blocks: a false result means the
// previous tick is still draining (or the world is paused) and the caller
// should drop the frame and retry on the next refresh.
func (w *World) AdvanceTick(poolSize int) bool {
	if w.pause.Load() != 0 {
		return false
	}
	if !w.running.CompareAndSwap(0, int32(poolSize)) {
		return false
	}
	w.tickMu.Lock()
	w.tick.Add(1)
	w.tickMu.Unlock()
	w.tickCond.Broadcast()
	return true
}

// TickDone records that one compute worker finished its pass over the
// current tick. Called exactly once per worker per tick.
func (w *World) TickDone() {
	w.running.Add(-1)
}

// WaitTick blocks until the tick moves past last, returning the new value.
// The worker suspends rather than spinning. ok is false when the world has
// been closed, in which case the returned tick is whatever was current.
func (w *World) WaitTick(last int64) (tick int64, ok bool) {
	w.tickMu.Lock()
	for w.tick.Load() == last && !w.closed.Load() {
		w.tickCond.Wait()
	}
	t := w.tick.Load()
	w.tickMu.Unlock()
	return t, !w.closed.Load()
}

// Close wakes every waiter and marks the world as shut down. Workers see
// ok=false from WaitTick and exit. Cell memory stays valid; Close only ends
// the clock.
func (w *World) Close() {
	w.closed.Store(true)
	w.tickMu.Lock()
	w.tickMu.Unlock()
	w.tickCond.Broadcast()
}

// Resize pauses the clock, drains the barrier, applies the new bounds, and
// resumes. No cell memory moves; cells outside the new rectangle keep their
// stale contents and simply stop being processed.
func (w *World) Resize(width, height int) error {
	w.Pause()
	defer w.Resume()

	// Pause stops new ticks from starting; wait out the one in flight.
	for w.running.Load() != 0 {
		time.Sleep(time.Millisecond)
	}
	return w.SetBounds(width, height)
}
