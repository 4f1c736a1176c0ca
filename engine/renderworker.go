package engine

import (
	"log/slog"

	"github.com/DDR0/stardust/species"
	"github.com/DDR0/stardust/world"
)

// newRenderSpawner builds the real render worker. It is a singleton outside
// the tick barrier: it rasterizes cell colors into the render buffer on
// demand and executes drawing primitives forwarded from the display layer,
// claiming cells with the renderer identity.
func newRenderSpawner(buf *world.RenderBuffer, frameReq <-chan struct{}, stop <-chan struct{}) SpawnFunc {
	return func(slot int, inbox <-chan Message, host chan<- envelope) {
		host <- envelope{from: slot, msg: Message{Kind: KindReady}}

		// Handshake: hello, then the data binding.
		var bound BindPayload
		for bound.World == nil {
			select {
			case <-stop:
				return
			case msg := <-inbox:
				switch msg.Kind {
				case KindHello:
				case KindBindToData:
					payload, ok := msg.Payload.(BindPayload)
					if !ok || payload.World == nil {
						slog.Warn("protocol violation: malformed bind payload")
						continue
					}
					bound = payload
				default:
					slog.Warn("protocol violation: unexpected message kind",
						"kind", msg.Kind.String(), "worker", slot)
				}
			}
		}
		if bound.Buffer == nil {
			bound.Buffer = buf
		}

		w := bound.World
		for {
			select {
			case <-stop:
				return
			case <-frameReq:
				rasterize(w, bound.Buffer)
				bound.Buffer.Present()
			case msg := <-inbox:
				handleDraw(w, msg, slot, host)
			}
		}
	}
}

// rasterize copies each in-bounds cell's packed color into the RGB render
// buffer. Cells are read without claiming them: a compute worker may be
// mid-update, and the resulting tear lasts one frame. Readers that need a
// consistent snapshot must claim cells; this one trades that for never
// copying the whole buffer.
func rasterize(w *world.World, buf *world.RenderBuffer) {
	bw, bh := w.Bounds()
	stride := buf.Stride()
	colors := w.Cells.Color
	pixels := buf.Write()
	for y := 0; y < bh; y++ {
		ci := w.Index(0, y)
		pi := (y*stride + 0) * 3
		for x := 0; x < bw; x++ {
			col := colors[ci+x]
			pixels[pi+0] = uint8(col >> 16)
			pixels[pi+1] = uint8(col >> 8)
			pixels[pi+2] = uint8(col)
			pi += 3
		}
	}
}

// handleDraw executes one drawing primitive, or logs it as a violation.
func handleDraw(w *world.World, msg Message, slot int, host chan<- envelope) {
	if !msg.Valid() {
		slog.Warn("protocol violation: message carries payload and error",
			"kind", msg.Kind.String(), "worker", slot)
		return
	}
	switch msg.Kind {
	case KindDrawDot:
		if d, ok := msg.Payload.(DrawDot); ok {
			stamp(w, d.X, d.Y, d.Species)
		}
	case KindDrawLine:
		if d, ok := msg.Payload.(DrawLine); ok {
			drawLine(w, d)
		}
	case KindDrawRect:
		if d, ok := msg.Payload.(DrawRect); ok {
			for y := d.Y; y < d.Y+d.H; y++ {
				for x := d.X; x < d.X+d.W; x++ {
					stamp(w, x, y, d.Species)
				}
			}
		}
	case KindDrawFill:
		if d, ok := msg.Payload.(DrawFill); ok {
			bw, bh := w.Bounds()
			for y := 0; y < bh; y++ {
				for x := 0; x < bw; x++ {
					stamp(w, x, y, d.Species)
				}
			}
		}
	case KindDrawTest:
		drawTest(w)
	case KindPing:
		host <- envelope{from: slot, msg: Message{
			Kind:    KindPong,
			Payload: PongPayload{Worker: int(world.OwnerRenderer), Tick: w.Tick()},
		}}
	default:
		slog.Warn("protocol violation: unexpected message kind",
			"kind", msg.Kind.String(), "worker", slot)
	}
}

// stamp materializes a species into one cell under the renderer's lock
// identity. A cell a compute worker holds right now is skipped; brush
// strokes arrive every frame, so the next one fills the gap.
func stamp(w *world.World, x, y int, id uint16) {
	if !w.InBounds(x, y) {
		return
	}
	idx := w.Index(x, y)
	claim, ok := w.Acquire(idx, world.OwnerRenderer)
	if !ok {
		return
	}
	species.Materialize(&w.Cells, idx, id, w.Tick())
	claim.Release()
}

// drawLine stamps the cells on a segment, classic integer Bresenham.
func drawLine(w *world.World, d DrawLine) {
	dx := abs(d.X1 - d.X0)
	dy := -abs(d.Y1 - d.Y0)
	sx, sy := 1, 1
	if d.X0 > d.X1 {
		sx = -1
	}
	if d.Y0 > d.Y1 {
		sy = -1
	}
	err := dx + dy
	x, y := d.X0, d.Y0
	for {
		stamp(w, x, y, d.Species)
		if x == d.X1 && y == d.Y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// drawTest paints alternating columns of every known species, a quick visual
// check that the whole pipeline is alive.
func drawTest(w *world.World) {
	bw, bh := w.Bounds()
	for x := 0; x < bw; x++ {
		id := uint16(x/8) % species.Count
		for y := bh / 2; y < bh; y++ {
			stamp(w, x, y, id)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
