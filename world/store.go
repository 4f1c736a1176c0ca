// Package world holds the shared simulation state: a fixed-capacity
// structure-of-arrays particle table plus the atomics that clock it.
//
// The World is allocated exactly once and shared by reference between the
// host, the compute workers, and the render worker. It provides no implicit
// synchronization beyond the per-cell lock protocol (lock.go) and the tick
// barrier (clock.go); validity of field values is a contract of the callers.
package world

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Maximum supported resolution. The backing store is sized for this once at
// startup and never reallocated; the active bounds may shrink/grow within it.
const (
	MaxWidth  = 3840
	MaxHeight = 2160
)

// EdgeBehavior describes the boundary condition of one simulation edge.
type EdgeBehavior uint32

const (
	// EdgeWall treats the edge as solid. Default on all four edges.
	EdgeWall EdgeBehavior = iota
	// EdgeOpen treats the edge as vacuum: particles crossing it leave the
	// world.
	EdgeOpen
)

// Edge indices into the per-edge behavior table.
const (
	EdgeTop = iota
	EdgeLeft
	EdgeBottom
	EdgeRight
	NumEdges
)

// Well-known species values. Everything above SpeciesWall is defined by the
// update rules, not by the store.
const (
	SpeciesAir  uint16 = 0
	SpeciesWall uint16 = 1
)

// Cells is the per-cell particle table, structure-of-arrays, indexed by the
// linear index Index(x, y) within the fixed backing width. All fields are
// plain memory: mutation requires holding the cell's lock.
type Cells struct {
	Species    []uint16
	LastTick   []int64   // tick stamp of the last successful update
	Initiative []float32 // movement budget, refilled from elapsed ticks
	Color      []uint32  // packed 0xRRGGBB, consumed by the render worker
	VelX       []float32
	VelY       []float32
	SubX       []float32 // accumulated sub-cell displacement
	SubY       []float32
	Mass       []float32
	Temp       []float32 // Kelvin
	Scratch1   []uint64  // species-defined opaque state
	Scratch2   []uint64
}

// World is the process-wide shared store.
type World struct {
	maxW, maxH int

	pause   atomic.Int32 // non-zero: mutation suspended, resize guard
	tick    atomic.Int64
	running atomic.Int32 // compute workers still in the current tick
	closed  atomic.Bool

	boundsW atomic.Int32
	boundsH atomic.Int32

	edges [NumEdges]atomic.Uint32

	lockOwner []atomic.Int32
	Cells     Cells

	tickMu   sync.Mutex
	tickCond *sync.Cond
}

// New allocates a world with the given backing-store capacity. The active
// bounds start equal to the capacity. Capacity is fixed for the life of the
// returned World.
func New(maxW, maxH int) *World {
	if maxW <= 0 {
		maxW = 1
	}
	if maxH <= 0 {
		maxH = 1
	}
	n := maxW * maxH
	w := &World{
		maxW: maxW,
		maxH: maxH,
		Cells: Cells{
			Species:    make([]uint16, n),
			LastTick:   make([]int64, n),
			Initiative: make([]float32, n),
			Color:      make([]uint32, n),
			VelX:       make([]float32, n),
			VelY:       make([]float32, n),
			SubX:       make([]float32, n),
			SubY:       make([]float32, n),
			Mass:       make([]float32, n),
			Temp:       make([]float32, n),
			Scratch1:   make([]uint64, n),
			Scratch2:   make([]uint64, n),
		},
		lockOwner: make([]atomic.Int32, n),
	}
	w.tickCond = sync.NewCond(&w.tickMu)
	w.boundsW.Store(int32(maxW))
	w.boundsH.Store(int32(maxH))
	return w
}

// NewDefault allocates a world sized for the maximum supported resolution.
func NewDefault() *World {
	return New(MaxWidth, MaxHeight)
}

// Capacity returns the total backing-store cell count.
func (w *World) Capacity() int { return w.maxW * w.maxH }

// MaxBounds returns the backing-store dimensions.
func (w *World) MaxBounds() (int, int) { return w.maxW, w.maxH }

// Bounds returns the active simulation rectangle.
func (w *World) Bounds() (width, height int) {
	return int(w.boundsW.Load()), int(w.boundsH.Load())
}

// Index returns the linear cell index for (x, y). The stride is the backing
// width, not the active bounds width, so indices stay stable across resizes.
func (w *World) Index(x, y int) int { return y*w.maxW + x }

// InBounds reports whether (x, y) lies inside the active rectangle.
func (w *World) InBounds(x, y int) bool {
	bw, bh := w.Bounds()
	return x >= 0 && y >= 0 && x < bw && y < bh
}

// Edge returns the behavior of one edge (EdgeTop..EdgeRight).
func (w *World) Edge(edge int) EdgeBehavior {
	return EdgeBehavior(w.edges[edge].Load())
}

// SetEdge sets the behavior of one edge. Meant to be called before the first
// tick; safe, but unsequenced, at any other time.
func (w *World) SetEdge(edge int, b EdgeBehavior) {
	w.edges[edge].Store(uint32(b))
}

// Pause raises the global pause flag. While it is up, AdvanceTick refuses to
// start the next tick; workers already inside a tick finish normally.
func (w *World) Pause() { w.pause.Store(1) }

// Resume lowers the pause flag.
func (w *World) Resume() { w.pause.Store(0) }

// Paused reports the pause flag.
func (w *World) Paused() bool { return w.pause.Load() != 0 }

// SetBounds changes the active rectangle. The caller must hold the pause
// flag and have drained the barrier (Resize does both); cell memory is never
// reallocated, so cells outside the new bounds keep stale contents.
func (w *World) SetBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("world: bounds %dx%d must be positive", width, height)
	}
	if width > w.maxW || height > w.maxH {
		return fmt.Errorf("world: bounds %dx%d exceed capacity %dx%d",
			width, height, w.maxW, w.maxH)
	}
	if !w.Paused() {
		return fmt.Errorf("world: bounds may only change while paused")
	}
	w.boundsW.Store(int32(width))
	w.boundsH.Store(int32(height))
	return nil
}
