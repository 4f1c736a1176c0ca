// Package engine runs the worker pool: the lifecycle handshake that brings
// compute and render workers online, the per-tick compute sweep, the
// asynchronous render worker, and the refresh-driven frame driver.
package engine

import (
	"fmt"

	"github.com/DDR0/stardust/world"
)

// Kind discriminates control-plane messages. Control traffic is tiny and
// lifecycle-only; simulation data travels through the shared world instead.
type Kind int

const (
	// worker -> host
	KindReady Kind = iota
	KindPong

	// host -> worker
	KindHello
	KindStart
	KindBindToData
	KindPing

	// host -> render worker, passed through opaquely from the display
	// binding layer
	KindDrawDot
	KindDrawLine
	KindDrawRect
	KindDrawFill
	KindDrawTest
)

var kindNames = map[Kind]string{
	KindReady:      "ready",
	KindPong:       "pong",
	KindHello:      "hello",
	KindStart:      "start",
	KindBindToData: "bindToData",
	KindPing:       "ping",
	KindDrawDot:    "drawDot",
	KindDrawLine:   "drawLine",
	KindDrawRect:   "drawRect",
	KindDrawFill:   "drawFill",
	KindDrawTest:   "drawTest",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Message is one control-plane envelope: a payload or an error, never both.
type Message struct {
	Kind    Kind
	Payload any
	Err     error
}

// Valid reports whether the message respects the payload-xor-error rule.
// Violations are logged and dropped, not fatal.
func (m Message) Valid() bool {
	return m.Payload == nil || m.Err == nil
}

// StartPayload tells a compute worker its place in the pool and hands it the
// shared store by reference. Never copied.
type StartPayload struct {
	Index int   // zero-based; lock identity is Index+1
	Count int   // workers that actually started
	Tick  int64 // clock value at start; the worker's first wait is against this
	World *world.World
}

// BindPayload hands the render worker the shared store and its output
// buffer.
type BindPayload struct {
	World  *world.World
	Buffer *world.RenderBuffer
}

// DrawDot stamps a single cell.
type DrawDot struct {
	X, Y    int
	Species uint16
}

// DrawLine stamps the cells on a segment.
type DrawLine struct {
	X0, Y0, X1, Y1 int
	Species        uint16
}

// DrawRect stamps a filled axis-aligned rectangle.
type DrawRect struct {
	X, Y, W, H int
	Species    uint16
}

// DrawFill stamps the entire active bounds.
type DrawFill struct {
	Species uint16
}

// PongPayload is the diagnostic echo a worker returns for a ping.
type PongPayload struct {
	Worker int   // lock identity; OwnerRenderer for the render worker
	Tick   int64 // last tick the worker completed
}
