package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/DDR0/stardust/engine"
	"github.com/DDR0/stardust/species"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		if g.world.Paused() {
			g.world.Resume()
		} else {
			g.world.Pause()
		}
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyI) {
		g.showProbe = !g.showProbe
	}

	// Camera controls
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		pos := rl.GetMousePosition()
		g.cam.ZoomAt(pos.X, pos.Y, 1+wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseMiddleButton) {
		delta := rl.GetMouseDelta()
		g.cam.Pan(-delta.X, -delta.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.cam.Reset()
	}

	// Brush species selection
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		g.brush = species.Sand
	case rl.IsKeyPressed(rl.KeyTwo):
		g.brush = species.Water
	case rl.IsKeyPressed(rl.KeyThree):
		g.brush = species.Fire
	case rl.IsKeyPressed(rl.KeyFour):
		g.brush = species.Wall
	case rl.IsKeyPressed(rl.KeyFive):
		g.brush = species.Steam
	}

	if rl.IsKeyPressed(rl.KeyT) {
		g.pool.Draw(engine.Message{Kind: engine.KindDrawTest})
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.pool.Draw(engine.Message{
			Kind:    engine.KindDrawFill,
			Payload: engine.DrawFill{Species: species.Air},
		})
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		g.paintAtMouse(g.brush)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		g.paintAtMouse(species.Air)
	}
}

// paintAtMouse maps the cursor from window space to cell space and sends a
// draw command to the render worker. Painting goes through the same cell
// locking as everything else, so a busy cell is simply skipped.
func (g *Game) paintAtMouse(id uint16) {
	pos := rl.GetMousePosition()
	wx, wy := g.cam.ScreenToWorld(pos.X, pos.Y)
	x, y := int(wx), int(wy)
	if !g.world.InBounds(x, y) {
		return
	}
	g.pool.Draw(engine.Message{
		Kind:    engine.KindDrawDot,
		Payload: engine.DrawDot{X: x, Y: y, Species: id},
	})
}

// handleResize propagates a window resize to the simulation bounds, capped
// at the backing capacity. Resizing pauses the clock, waits for in-flight
// workers to drain, and resumes.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := rl.GetScreenWidth()
	h := rl.GetScreenHeight()
	maxW, maxH := g.world.MaxBounds()
	if w > maxW {
		w = maxW
	}
	if h > maxH {
		h = maxH
	}
	if w < 1 || h < 1 {
		return
	}
	if err := g.world.Resize(w, h); err != nil {
		slog.Warn("resize rejected", "width", w, "height", h, "error", err)
		return
	}
	g.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	g.cam.SetWorld(float32(w), float32(h))
	g.insp.SetPosition(int32(rl.GetScreenWidth()))
}
