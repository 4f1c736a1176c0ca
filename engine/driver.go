package engine

import (
	"log/slog"

	"github.com/DDR0/stardust/emitters"
	"github.com/DDR0/stardust/telemetry"
	"github.com/DDR0/stardust/world"
)

// Driver is the host-side frame loop body, called once per display refresh.
// It never blocks: when the previous tick is still draining it drops the
// frame and retries on the next refresh, so the host stays pinned to the
// display cadence no matter how slow the pool is.
type Driver struct {
	world *world.World
	pool  *Pool

	// Optional collaborators; nil disables them.
	emit *emitters.System
	perf *telemetry.PerfCollector

	frames   int64
	advanced int64
	dropped  int64

	// Stall detection is observation only: the barrier has no timeout, and
	// a permanently stalled worker halts the clock for good. We log it
	// rather than papering over it.
	stallAfter   int
	sinceAdvance int
}

// DriverOptions configures the optional collaborators.
type DriverOptions struct {
	Emitters   *emitters.System
	Perf       *telemetry.PerfCollector
	StallAfter int // refreshes without an advance before warning; 0 disables
}

// NewDriver wires a driver to a started pool.
func NewDriver(w *world.World, pool *Pool, opts DriverOptions) *Driver {
	return &Driver{
		world:      w,
		pool:       pool,
		emit:       opts.Emitters,
		perf:       opts.Perf,
		stallAfter: opts.StallAfter,
	}
}

// Frame runs one refresh: step the emitters under the host identity, attempt
// the barrier transition, and ask the render worker for a fresh
// rasterization. Returns whether the tick advanced.
func (d *Driver) Frame() bool {
	d.frames++
	if d.perf != nil {
		d.perf.StartFrame()
		d.perf.StartPhase(telemetry.PhaseEmitters)
	}

	if d.emit != nil && !d.world.Paused() {
		d.emit.Step(d.world)
	}

	if d.perf != nil {
		d.perf.StartPhase(telemetry.PhaseBarrier)
	}
	// A paused clock refuses every advance; those refreshes are neither
	// drops nor evidence of a stalled worker.
	advanced := false
	if !d.world.Paused() {
		advanced = d.world.AdvanceTick(d.pool.Size)
		if advanced {
			d.advanced++
			d.sinceAdvance = 0
		} else {
			d.dropped++
			d.sinceAdvance++
			if d.stallAfter > 0 && d.sinceAdvance == d.stallAfter {
				slog.Warn("tick has not advanced; a compute worker may be stalled",
					"tick", d.world.Tick(),
					"still_running", d.world.Running(),
					"refreshes", d.sinceAdvance)
			}
		}
	}

	if d.perf != nil {
		d.perf.StartPhase(telemetry.PhaseRender)
	}
	d.pool.RequestFrame()

	if d.perf != nil {
		d.perf.EndFrame(advanced)
	}
	return advanced
}

// Frames returns the total refreshes driven.
func (d *Driver) Frames() int64 { return d.frames }

// Advanced returns the count of refreshes that advanced the tick.
func (d *Driver) Advanced() int64 { return d.advanced }

// Dropped returns the count of refreshes dropped at the barrier.
func (d *Driver) Dropped() int64 { return d.dropped }
