// Package inspector renders a probe panel for the cell under the cursor.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/DDR0/stardust/world"
)

// Panel dimensions
const (
	PanelWidth   = 260
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorLabel       = rl.Color{R: 200, G: 200, B: 220, A: 255}
	ColorValue       = rl.Color{R: 255, G: 255, B: 255, A: 255}
)

// CellProbe is a point-in-time copy of one cell's fields. The read is
// unlocked, so a probe taken mid-tick can mix values from two updates; for a
// debug display that is acceptable.
type CellProbe struct {
	X, Y       int
	Species    uint16
	LastTick   int64
	Initiative float32
	Color      uint32
	VelX, VelY float32
	SubX, SubY float32
	Mass       float32
	Temp       float32
	LockHolder int32
}

// Probe snapshots the cell at (x, y). Returns false outside the bounds.
func Probe(w *world.World, x, y int) (CellProbe, bool) {
	if !w.InBounds(x, y) {
		return CellProbe{}, false
	}
	idx := w.Index(x, y)
	c := &w.Cells
	return CellProbe{
		X: x, Y: y,
		Species:    c.Species[idx],
		LastTick:   c.LastTick[idx],
		Initiative: c.Initiative[idx],
		Color:      c.Color[idx],
		VelX:       c.VelX[idx],
		VelY:       c.VelY[idx],
		SubX:       c.SubX[idx],
		SubY:       c.SubY[idx],
		Mass:       c.Mass[idx],
		Temp:       c.Temp[idx],
		LockHolder: w.LockHolder(idx),
	}, true
}

// Inspector renders the probe panel.
type Inspector struct {
	panelX int32
	panelY int32

	// SpeciesName resolves ids for display; nil prints the raw id.
	SpeciesName func(uint16) string
}

// NewInspector creates an inspector anchored to the top-right corner.
func NewInspector(screenWidth int32) *Inspector {
	return &Inspector{
		panelX: screenWidth - PanelWidth - 10,
		panelY: 10,
	}
}

// SetPosition re-anchors the panel after a window resize.
func (ins *Inspector) SetPosition(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// Draw renders the panel for one probe.
func (ins *Inspector) Draw(p CellProbe) {
	const lineH = 18
	lines := []struct {
		label string
		value string
	}{
		{"species", ins.speciesName(p.Species)},
		{"last tick", fmt.Sprintf("%d", p.LastTick)},
		{"initiative", fmt.Sprintf("%.2f", p.Initiative)},
		{"color", fmt.Sprintf("#%06x", p.Color)},
		{"velocity", fmt.Sprintf("%.2f, %.2f", p.VelX, p.VelY)},
		{"subcell", fmt.Sprintf("%.2f, %.2f", p.SubX, p.SubY)},
		{"mass", fmt.Sprintf("%.2f", p.Mass)},
		{"temp", fmt.Sprintf("%.1f K", p.Temp)},
		{"lock", lockName(p.LockHolder)},
	}

	panelHeight := int32(HeaderHeight + PanelPadding*2 + lineH*len(lines))
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{
			X: float32(ins.panelX), Y: float32(ins.panelY),
			Width: PanelWidth, Height: float32(panelHeight),
		}, 1, ColorPanelBorder)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("CELL %d, %d", p.X, p.Y),
		ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	y := ins.panelY + HeaderHeight + PanelPadding
	for _, line := range lines {
		rl.DrawText(line.label, ins.panelX+PanelPadding, y, 14, ColorLabel)
		rl.DrawText(line.value, ins.panelX+110, y, 14, ColorValue)
		y += lineH
	}
}

func (ins *Inspector) speciesName(id uint16) string {
	if ins.SpeciesName != nil {
		return ins.SpeciesName(id)
	}
	return fmt.Sprintf("%d", id)
}

func lockName(owner int32) string {
	switch {
	case owner == world.OwnerFree:
		return "free"
	case owner == world.OwnerHost:
		return "host"
	case owner == world.OwnerRenderer:
		return "renderer"
	default:
		return fmt.Sprintf("worker %d", owner)
	}
}
