package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/DDR0/stardust/telemetry"
)

// HUDData holds everything the main HUD displays.
type HUDData struct {
	Title        string
	Tick         int64
	Workers      int
	Frames       int64
	Dropped      int64
	FPS          int32
	Paused       bool
	RenderOK     bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	dropPct := float64(0)
	if data.Frames > 0 {
		dropPct = float64(data.Dropped) / float64(data.Frames) * 100
	}
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Workers: %d | FPS: %d | Dropped: %.1f%%",
			data.Tick, data.Workers, data.FPS, dropPct),
		10, 35, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	} else {
		rl.DrawText("Running", 10, 55, 16, rl.LightGray)
	}
	if !data.RenderOK {
		rl.DrawText("render worker offline", 10, 75, 16, rl.Red)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders frame timing from the rolling perf window.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// Draw renders the panel from the collector's current window.
func (p *PerfPanel) Draw(perf *telemetry.PerfCollector) {
	if perf == nil {
		return
	}
	s := perf.Stats()
	if s.Frames == 0 {
		return
	}

	x, y := p.x, p.y
	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("avg: %s  min: %s  max: %s",
		s.AvgFrame.Round(time.Microsecond),
		s.MinFrame.Round(time.Microsecond),
		s.MaxFrame.Round(time.Microsecond)),
		x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range []string{
		telemetry.PhaseEmitters, telemetry.PhaseBarrier, telemetry.PhaseRender,
	} {
		pct := s.PhasePct[phase]
		tint := rl.LightGray
		if pct > 50 {
			tint = rl.Red
		} else if pct > 25 {
			tint = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %6s %5.1f%%",
			phase, s.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 14, tint)
		y += 16
	}
}
