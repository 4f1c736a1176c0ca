// Package scene seeds the world before the pool starts: noise-carved
// terrain walls with loose material scattered into the open pockets. Runs
// on the host thread only, so cells are claimed with the host identity
// purely for lock-discipline consistency.
package scene

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/DDR0/stardust/species"
	"github.com/DDR0/stardust/world"
)

// Params controls terrain generation.
type Params struct {
	Seed      int64
	Scale     float64 // noise frequency; higher = smaller features
	Threshold float64 // noise values above this become wall
	SandFill  float64 // chance an open cell near a wall gets sand
	WaterFill float64 // chance an open cell in the lower third gets water
}

// DefaultParams are tuned for a recognizable cave-like arena.
func DefaultParams(seed int64) Params {
	return Params{
		Seed:      seed,
		Scale:     0.035,
		Threshold: 0.62,
		SandFill:  0.15,
		WaterFill: 0.04,
	}
}

// Seed fills the active bounds from scratch: air everywhere, walls where
// the noise field exceeds the threshold, then scattered sand and water.
// Deterministic for a given Params.
func Seed(w *world.World, p Params) {
	noise := opensimplex.NewNormalized(p.Seed)
	rng := rand.New(rand.NewSource(p.Seed))
	bw, bh := w.Bounds()
	tick := w.Tick()

	for y := 0; y < bh; y++ {
		for x := 0; x < bw; x++ {
			idx := w.Index(x, y)
			claim, ok := w.Acquire(idx, world.OwnerHost)
			if !ok {
				continue // nothing else should be running; skip regardless
			}

			id := species.Air
			switch {
			case noise.Eval2(float64(x)*p.Scale, float64(y)*p.Scale) > p.Threshold:
				id = species.Wall
			case rng.Float64() < p.SandFill && nearWall(noise, p, x, y):
				id = species.Sand
			case y > bh*2/3 && rng.Float64() < p.WaterFill:
				id = species.Water
			}
			species.Materialize(&w.Cells, idx, id, tick)
			claim.Release()
		}
	}
}

// nearWall reports whether the cell one step down sits inside terrain, so
// sand piles start resting on something instead of raining everywhere.
func nearWall(noise opensimplex.Noise, p Params, x, y int) bool {
	return noise.Eval2(float64(x)*p.Scale, float64(y+1)*p.Scale) > p.Threshold
}
