package engine

import (
	"testing"
	"time"

	"github.com/DDR0/stardust/emitters"
	"github.com/DDR0/stardust/telemetry"
	"github.com/DDR0/stardust/world"
)

// stoppedPool builds a pool whose workers went READY and then parked without
// ever touching the barrier, so tests can manipulate the running count by
// hand.
func stoppedPool(t *testing.T, w *world.World, size int) *Pool {
	t.Helper()
	pool, err := Start(w, Options{
		Workers: size,
		Settle:  200 * time.Millisecond,
		Spawn: func(slot int, inbox <-chan Message, host chan<- envelope) {
			host <- envelope{from: slot, msg: Message{Kind: KindReady}}
		},
		SpawnRender: func(slot int, inbox <-chan Message, host chan<- envelope) {},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Stop)
	return pool
}

func TestFrameAdvancesWhenIdle(t *testing.T) {
	w := world.New(16, 16)
	pool := stoppedPool(t, w, 2)
	d := NewDriver(w, pool, DriverOptions{})

	if !d.Frame() {
		t.Fatal("frame should advance when no tick is in flight")
	}
	if w.Tick() != 1 {
		t.Errorf("tick = %d, want 1", w.Tick())
	}
	if d.Advanced() != 1 || d.Dropped() != 0 {
		t.Errorf("advanced/dropped = %d/%d, want 1/0", d.Advanced(), d.Dropped())
	}
}

func TestFrameDropsWhileTickInFlight(t *testing.T) {
	w := world.New(16, 16)
	pool := stoppedPool(t, w, 2)
	d := NewDriver(w, pool, DriverOptions{})

	if !d.Frame() {
		t.Fatal("first frame should advance")
	}
	// Neither worker has checked in, so the running count is still 2 and the
	// next refreshes must drop.
	for i := 0; i < 3; i++ {
		if d.Frame() {
			t.Fatal("frame advanced with the previous tick still draining")
		}
	}
	if w.Tick() != 1 {
		t.Errorf("tick = %d, want 1", w.Tick())
	}
	if d.Dropped() != 3 {
		t.Errorf("dropped = %d, want 3", d.Dropped())
	}

	// Drain the tick by hand; the next frame advances again.
	w.TickDone()
	w.TickDone()
	if !d.Frame() {
		t.Fatal("frame should advance after the pool drained")
	}
	if w.Tick() != 2 {
		t.Errorf("tick = %d, want 2", w.Tick())
	}
}

func TestPausedFramesAreNotDrops(t *testing.T) {
	w := world.New(16, 16)
	pool := stoppedPool(t, w, 1)
	d := NewDriver(w, pool, DriverOptions{StallAfter: 3})

	w.Pause()
	for i := 0; i < 5; i++ {
		if d.Frame() {
			t.Fatal("frame advanced while paused")
		}
	}
	// Pausing is not a stall and inflates neither the drop count nor the
	// stall counter, however long it lasts.
	if d.Dropped() != 0 {
		t.Errorf("dropped = %d while paused, want 0", d.Dropped())
	}
	w.Resume()
	if !d.Frame() {
		t.Fatal("frame should advance after resume")
	}
	if d.Advanced() != 1 || d.Dropped() != 0 {
		t.Errorf("advanced/dropped = %d/%d, want 1/0", d.Advanced(), d.Dropped())
	}
}

func TestEmittersSkippedWhilePaused(t *testing.T) {
	w := world.New(16, 16)
	pool := stoppedPool(t, w, 1)

	emit := emitters.NewSystem(1)
	emit.Add(4, 4, 2, 1.0, 0)
	d := NewDriver(w, pool, DriverOptions{Emitters: emit})

	w.Pause()
	d.Frame()
	if got := w.Cells.Species[w.Index(4, 4)]; got != world.SpeciesAir {
		t.Errorf("emitter ran while paused; cell species = %d", got)
	}
	w.Resume()
	d.Frame()
	if got := w.Cells.Species[w.Index(4, 4)]; got == world.SpeciesAir {
		t.Error("emitter did not run after resume")
	}
}

func TestPerfRecordsFrames(t *testing.T) {
	w := world.New(16, 16)
	pool := stoppedPool(t, w, 1)

	perf := telemetry.NewPerfCollector(8)
	d := NewDriver(w, pool, DriverOptions{Perf: perf})

	d.Frame() // advances
	d.Frame() // drops, worker never drained

	stats := perf.Stats()
	if stats.Frames != 2 {
		t.Errorf("recorded frames = %d, want 2", stats.Frames)
	}
	if stats.Advanced != 1 {
		t.Errorf("recorded advances = %d, want 1", stats.Advanced)
	}
	if stats.DropRate < 0.49 || stats.DropRate > 0.51 {
		t.Errorf("drop rate = %v, want 0.5", stats.DropRate)
	}
}

func TestStallWarningResetsOnAdvance(t *testing.T) {
	w := world.New(16, 16)
	pool := stoppedPool(t, w, 1)
	d := NewDriver(w, pool, DriverOptions{StallAfter: 2})

	d.Frame() // advance, running=1
	d.Frame() // drop 1
	d.Frame() // drop 2, warning fires here
	w.TickDone()
	if !d.Frame() {
		t.Fatal("frame should advance after drain")
	}
	// Internal counter must reset so a later stall warns again.
	d.Frame()
	d.Frame()
	if d.Dropped() != 4 {
		t.Errorf("dropped = %d, want 4", d.Dropped())
	}
}
