package species

func updateSand(p *Pass, x, y int) {
	w := p.World
	c := &w.Cells
	idx := w.Index(x, y)
	if !p.refill(idx, Sand) {
		return
	}

	// Gravity accumulates in velocity; sub-cell displacement banks until it
	// crosses a whole cell.
	c.VelY[idx] += gravity
	c.SubY[idx] += c.VelY[idx]
	if c.SubY[idx] < 1 {
		return
	}
	c.SubY[idx] -= 1

	if p.tryMove(idx, x, y+1, Air) {
		return
	}
	// Sand sinks through water.
	if p.tryMove(idx, x, y+1, Water) {
		return
	}

	// Blocked below: roll down a random diagonal.
	dir := 1
	if p.Rand.Intn(2) == 0 {
		dir = -1
	}
	if p.tryMove(idx, x+dir, y+1, Air) || p.tryMove(idx, x-dir, y+1, Air) {
		return
	}

	// Settled. Drop the banked motion so a buried particle stays cheap.
	c.VelY[idx] = 0
	c.SubY[idx] = 0
}

func updateWater(p *Pass, x, y int) {
	w := p.World
	c := &w.Cells
	idx := w.Index(x, y)
	if !p.refill(idx, Water) {
		return
	}

	c.VelY[idx] += gravity
	c.SubY[idx] += c.VelY[idx]
	if c.SubY[idx] >= 1 {
		c.SubY[idx] -= 1
		if p.tryMove(idx, x, y+1, Air) {
			return
		}
		dir := 1
		if p.Rand.Intn(2) == 0 {
			dir = -1
		}
		if p.tryMove(idx, x+dir, y+1, Air) || p.tryMove(idx, x-dir, y+1, Air) {
			return
		}
		c.VelY[idx] = 0
		c.SubY[idx] = 0
	}

	// Blocked below: spread sideways. Alternating the preferred direction by
	// tick parity avoids a persistent drift.
	dir := 1
	if (p.Tick+int64(x))%2 == 0 {
		dir = -1
	}
	if p.tryMove(idx, x+dir, y, Air) {
		return
	}
	p.tryMove(idx, x-dir, y, Air)
}

func updateFire(p *Pass, x, y int) {
	w := p.World
	c := &w.Cells
	idx := w.Index(x, y)

	// Fuel burns down once per tick regardless of movement budget.
	if elapsed := p.Tick - c.LastTick[idx]; elapsed > 0 {
		burn := uint64(elapsed)
		if burn >= c.Scratch1[idx] {
			Materialize(c, idx, Air, p.Tick)
			return
		}
		c.Scratch1[idx] -= burn
		c.Temp[idx] -= float32(burn) * 8
	}

	// Boil adjacent water into steam.
	for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
		nx, ny := x+d[0], y+d[1]
		if !w.InBounds(nx, ny) {
			continue
		}
		n := w.Index(nx, ny)
		if c.Species[n] != Water {
			continue
		}
		if claim, ok := w.Acquire(n, p.Owner); ok {
			if c.Species[n] == Water {
				Materialize(c, n, Steam, p.Tick)
			}
			claim.Release()
		}
	}

	if !p.refill(idx, Fire) {
		return
	}

	// Flames drift upward with jitter.
	dx := p.Rand.Intn(3) - 1
	if p.tryMove(idx, x+dx, y-1, Air) {
		return
	}
	p.tryMove(idx, x, y-1, Air)
}

func updateSteam(p *Pass, x, y int) {
	w := p.World
	c := &w.Cells
	idx := w.Index(x, y)

	// Cool toward ambient; condense when cold enough.
	if elapsed := p.Tick - c.LastTick[idx]; elapsed > 0 {
		c.Temp[idx] -= float32(elapsed) * 0.5
		if c.Temp[idx] < steamCondenseTemp {
			Materialize(c, idx, Water, p.Tick)
			return
		}
	}

	if !p.refill(idx, Steam) {
		return
	}

	dx := p.Rand.Intn(3) - 1
	if p.tryMove(idx, x+dx, y-1, Air) {
		return
	}
	if p.tryMove(idx, x, y-1, Air) {
		return
	}
	p.tryMove(idx, x+dx, y, Air)
}
