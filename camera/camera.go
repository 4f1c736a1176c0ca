// Package camera provides a 2D camera for viewport control over the cell
// grid.
package camera

// Camera maps between screen pixels and cell coordinates. Zoom 1.0 fits the
// whole active bounds in the viewport; higher zoom magnifies around the
// center. The view never leaves the bounds, so panning clamps instead of
// wrapping.
type Camera struct {
	// Position is the view center in cell coordinates
	X, Y float32

	// Zoom level (1.0 = whole world visible, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions (active simulation bounds, in cells)
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole world.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   1.0,
		MaxZoom:   16.0,
	}
}

// View returns the visible cell rectangle (x, y, w, h), clamped to the world
// bounds.
func (c *Camera) View() (x, y, w, h float32) {
	w = c.WorldW / c.Zoom
	h = c.WorldH / c.Zoom
	x = clamp(c.X-w/2, 0, c.WorldW-w)
	y = clamp(c.Y-h/2, 0, c.WorldH-h)
	return
}

// WorldToScreen converts cell coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	vx, vy, vw, vh := c.View()
	sx = (wx - vx) * c.ViewportW / vw
	sy = (wy - vy) * c.ViewportH / vh
	return
}

// ScreenToWorld converts screen coordinates to cell coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	vx, vy, vw, vh := c.View()
	wx = vx + sx*vw/c.ViewportW
	wy = vy + sy*vh/c.ViewportH
	return
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	_, _, vw, vh := c.View()
	c.X = clamp(c.X+dx*vw/c.ViewportW, vw/2, c.WorldW-vw/2)
	c.Y = clamp(c.Y+dy*vh/c.ViewportH, vh/2, c.WorldH-vh/2)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	// Re-clamp the center so the view stays inside the world.
	c.Pan(0, 0)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by the given factor while keeping the cell under the screen
// point (sx, sy) stationary.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)
	// Move the center so the anchor cell lands back under the cursor.
	nwx, nwy := c.ScreenToWorld(sx, sy)
	c.X += wx - nwx
	c.Y += wy - nwy
	c.Pan(0, 0)
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetWorld updates the world dimensions after a bounds change and re-clamps
// the view.
func (c *Camera) SetWorld(worldW, worldH float32) {
	c.WorldW = worldW
	c.WorldH = worldH
	c.SetZoom(c.Zoom)
}

// Reset returns the camera to the whole-world view.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
