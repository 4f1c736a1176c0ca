// Package emitters manages particle sources as ECS entities. The host steps
// the system once per frame, claiming target cells under its own lock
// identity before stamping new particles into them.
package emitters

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/DDR0/stardust/species"
	"github.com/DDR0/stardust/world"
)

// Position is an emitter's cell location.
type Position struct {
	X, Y int
}

// Emitter spawns particles of one species at a sub-frame rate. The
// accumulator banks fractional spawns the same way cells bank sub-pixel
// motion.
type Emitter struct {
	Species uint16
	Rate    float32 // particles per frame
	Radius  int     // scatter radius around the position
	acc     float32
}

// System owns the ECS world of emitters.
type System struct {
	ecs    *ecs.World
	mapper *ecs.Map2[Position, Emitter]
	filter *ecs.Filter2[Position, Emitter]
	rng    *rand.Rand
}

// NewSystem creates an empty emitter set.
func NewSystem(seed int64) *System {
	w := ecs.NewWorld()
	return &System{
		ecs:    w,
		mapper: ecs.NewMap2[Position, Emitter](w),
		filter: ecs.NewFilter2[Position, Emitter](w),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Add registers an emitter and returns its entity.
func (s *System) Add(x, y int, id uint16, rate float32, radius int) ecs.Entity {
	pos := Position{X: x, Y: y}
	em := Emitter{Species: id, Rate: rate, Radius: radius}
	return s.mapper.NewEntity(&pos, &em)
}

// Remove deletes an emitter entity.
func (s *System) Remove(e ecs.Entity) {
	s.mapper.Remove(e)
}

// Count returns the number of registered emitters.
func (s *System) Count() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Step spawns this frame's particles. Cells are claimed with the host
// identity; a cell held by a worker or already occupied is skipped and the
// banked spawn is spent regardless, so a blocked emitter does not burst
// later.
func (s *System) Step(w *world.World) {
	tick := w.Tick()
	query := s.filter.Query()
	for query.Next() {
		pos, em := query.Get()

		em.acc += em.Rate
		for em.acc >= 1 {
			em.acc -= 1

			x, y := pos.X, pos.Y
			if em.Radius > 0 {
				x += s.rng.Intn(2*em.Radius+1) - em.Radius
				y += s.rng.Intn(2*em.Radius+1) - em.Radius
			}
			if !w.InBounds(x, y) {
				continue
			}
			idx := w.Index(x, y)
			claim, ok := w.Acquire(idx, world.OwnerHost)
			if !ok {
				continue
			}
			if w.Cells.Species[idx] == species.Air {
				species.Materialize(&w.Cells, idx, em.Species, tick)
			}
			claim.Release()
		}
	}
}
