package scene

import (
	"testing"

	"github.com/DDR0/stardust/species"
	"github.com/DDR0/stardust/world"
)

func TestSeedDeterministic(t *testing.T) {
	p := DefaultParams(42)
	a := world.New(64, 64)
	b := world.New(64, 64)
	Seed(a, p)
	Seed(b, p)

	for i := range a.Cells.Species {
		if a.Cells.Species[i] != b.Cells.Species[i] {
			t.Fatalf("cell %d differs between identically seeded worlds", i)
		}
	}
}

func TestSeedProducesTerrain(t *testing.T) {
	w := world.New(128, 128)
	Seed(w, DefaultParams(7))

	counts := map[uint16]int{}
	for _, s := range w.Cells.Species {
		counts[s]++
	}

	total := w.Capacity()
	if counts[species.Wall] == 0 {
		t.Error("no wall cells generated")
	}
	if counts[species.Wall] > total*3/4 {
		t.Errorf("wall fraction %d/%d, threshold is likely miscalibrated", counts[species.Wall], total)
	}
	if counts[species.Air] == 0 {
		t.Error("no open space generated")
	}
}

func TestSeedRespectsBounds(t *testing.T) {
	w := world.New(64, 64)
	if err := w.Resize(32, 32); err != nil {
		t.Fatal(err)
	}
	Seed(w, DefaultParams(3))

	// Cells outside the active bounds stay untouched air.
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 && y < 32 {
				continue
			}
			if got := w.Cells.Species[w.Index(x, y)]; got != species.Air {
				t.Fatalf("out-of-bounds cell (%d,%d) = %d, want untouched air", x, y, got)
			}
		}
	}

	// And no locks were left held anywhere.
	for i := 0; i < w.Capacity(); i++ {
		if w.LockHolder(i) != world.OwnerFree {
			t.Fatalf("cell %d left locked after seeding", i)
		}
	}
}
