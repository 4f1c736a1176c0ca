// Package species defines the particle update rules that run inside each
// compute worker. Rules own the retry policy for contested cells: every rule
// here skips a busy cell and lets the particle try again next tick.
package species

import (
	"math/rand"

	"github.com/DDR0/stardust/world"
)

// Species ids. Air and Wall are fixed by the store; the rest are ours.
const (
	Air   = world.SpeciesAir
	Wall  = world.SpeciesWall
	Sand  uint16 = 2
	Water uint16 = 3
	Fire  uint16 = 4
	Steam uint16 = 5

	Count = 6
)

// Packed 0xRRGGBB display colors.
var colors = [Count]uint32{
	Air:   0x000000,
	Wall:  0x6b6b6b,
	Sand:  0xd8b868,
	Water: 0x3070d0,
	Fire:  0xf05818,
	Steam: 0xc0c8d0,
}

// speed is the initiative refilled per elapsed tick. Faster species bank
// more budget and therefore move more often.
var speed = [Count]float32{
	Sand:  1.0,
	Water: 1.4,
	Fire:  1.2,
	Steam: 0.8,
}

var mass = [Count]float32{
	Wall:  1000,
	Sand:  1.6,
	Water: 1.0,
	Fire:  0.1,
	Steam: 0.05,
}

var baseTemp = [Count]float32{
	Air:   293,
	Wall:  293,
	Sand:  293,
	Water: 288,
	Fire:  1100,
	Steam: 400,
}

// moveCost is the initiative spent per whole-cell move.
const moveCost = 1.0

// gravity is the per-tick vertical acceleration, in cells/tick².
const gravity = 0.12

// fireLifeTicks is the fuel a fresh fire particle starts with (scratch1).
const fireLifeTicks = 40

// steamCondenseTemp is the temperature below which steam falls back to
// water.
const steamCondenseTemp = 310

var names = [Count]string{
	Air:   "air",
	Wall:  "wall",
	Sand:  "sand",
	Water: "water",
	Fire:  "fire",
	Steam: "steam",
}

// Name returns the display name for a species id.
func Name(id uint16) string {
	if int(id) < len(names) {
		return names[id]
	}
	return "unknown"
}

// Color returns the display color for a species id.
func Color(id uint16) uint32 {
	if int(id) < len(colors) {
		return colors[id]
	}
	return 0xff00ff
}

// Materialize stamps species defaults into an already-claimed cell.
func Materialize(c *world.Cells, idx int, id uint16, tick int64) {
	c.Species[idx] = id
	c.LastTick[idx] = tick
	c.Initiative[idx] = 0
	c.Color[idx] = Color(id)
	c.VelX[idx] = 0
	c.VelY[idx] = 0
	c.SubX[idx] = 0
	c.SubY[idx] = 0
	c.Scratch1[idx] = 0
	c.Scratch2[idx] = 0
	if int(id) < len(mass) {
		c.Mass[idx] = mass[id]
		c.Temp[idx] = baseTemp[id]
	}
	if id == Fire {
		c.Scratch1[idx] = fireLifeTicks
	}
}

// Rule advances one claimed particle at (x, y). The pass has already locked
// the cell; the rule locks any destination cell itself.
type Rule func(p *Pass, x, y int)

// Rules maps species id to update rule. Nil entries (air, wall) never move.
var Rules = [Count]Rule{
	Sand:  updateSand,
	Water: updateWater,
	Fire:  updateFire,
	Steam: updateSteam,
}

// Pass carries one compute worker's per-tick state through the rules.
type Pass struct {
	World *world.World
	Owner int32 // worker lock identity, >= 1
	Tick  int64
	Rand  *rand.Rand
}

// refill tops up the movement budget from the ticks elapsed since the
// particle last ran, then stamps the cell as processed. Returns false when
// the particle has no whole move banked yet.
func (p *Pass) refill(idx int, id uint16) bool {
	c := &p.World.Cells
	elapsed := p.Tick - c.LastTick[idx]
	if elapsed > 0 {
		c.Initiative[idx] += float32(elapsed) * speed[id]
		if c.Initiative[idx] > 4*moveCost {
			c.Initiative[idx] = 4 * moveCost
		}
	}
	c.LastTick[idx] = p.Tick
	return c.Initiative[idx] >= moveCost
}

// tryMove swaps the particle at src into (nx, ny), claiming the destination
// first. The destination must currently hold the evicted species (normally
// air). Busy or occupied destinations are skipped, not waited on.
func (p *Pass) tryMove(src, nx, ny int, displacing uint16) bool {
	w := p.World
	if !w.InBounds(nx, ny) {
		return p.crossEdge(src, nx, ny)
	}
	dst := w.Index(nx, ny)
	claim, ok := w.Acquire(dst, p.Owner)
	if !ok {
		return false
	}
	defer claim.Release()

	c := &w.Cells
	if c.Species[dst] != displacing {
		return false
	}
	swapCells(c, src, dst)
	c.Initiative[dst] -= moveCost
	return true
}

// crossEdge resolves a move that leaves the active bounds. Open edges are
// vacuum: the particle is gone. Walls stop it and kill its velocity.
func (p *Pass) crossEdge(src, nx, ny int) bool {
	w := p.World
	bw, bh := w.Bounds()

	edge := -1
	switch {
	case ny < 0:
		edge = world.EdgeTop
	case ny >= bh:
		edge = world.EdgeBottom
	case nx < 0:
		edge = world.EdgeLeft
	case nx >= bw:
		edge = world.EdgeRight
	}

	c := &w.Cells
	if edge >= 0 && w.Edge(edge) == world.EdgeOpen {
		Materialize(c, src, Air, p.Tick)
		return true
	}
	c.VelX[src] = 0
	c.VelY[src] = 0
	c.SubX[src] = 0
	c.SubY[src] = 0
	return false
}

// swapCells exchanges every per-cell field between two claimed cells.
func swapCells(c *world.Cells, a, b int) {
	c.Species[a], c.Species[b] = c.Species[b], c.Species[a]
	c.LastTick[a], c.LastTick[b] = c.LastTick[b], c.LastTick[a]
	c.Initiative[a], c.Initiative[b] = c.Initiative[b], c.Initiative[a]
	c.Color[a], c.Color[b] = c.Color[b], c.Color[a]
	c.VelX[a], c.VelX[b] = c.VelX[b], c.VelX[a]
	c.VelY[a], c.VelY[b] = c.VelY[b], c.VelY[a]
	c.SubX[a], c.SubX[b] = c.SubX[b], c.SubX[a]
	c.SubY[a], c.SubY[b] = c.SubY[b], c.SubY[a]
	c.Mass[a], c.Mass[b] = c.Mass[b], c.Mass[a]
	c.Temp[a], c.Temp[b] = c.Temp[b], c.Temp[a]
	c.Scratch1[a], c.Scratch1[b] = c.Scratch1[b], c.Scratch1[a]
	c.Scratch2[a], c.Scratch2[b] = c.Scratch2[b], c.Scratch2[a]
}
