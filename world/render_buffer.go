package world

import "sync"

// RenderBuffer is the pixel region the render worker writes and the display
// layer reads: one RGB triplet per backing-store cell, row-major with the
// backing width as stride.
//
// Single-buffered by default: a reader may observe a partially written frame.
// That tearing is the accepted price of not copying the buffer every tick.
// With double buffering enabled the render worker writes a back buffer and
// Present swaps it in whole.
type RenderBuffer struct {
	maxW, maxH int
	buffered   bool

	mu    sync.Mutex // guards the swap, not the pixel writes
	front []uint8
	back  []uint8
}

// NewRenderBuffer allocates pixel storage for the given backing capacity.
func NewRenderBuffer(maxW, maxH int, doubleBuffered bool) *RenderBuffer {
	n := maxW * maxH * 3
	b := &RenderBuffer{
		maxW:     maxW,
		maxH:     maxH,
		buffered: doubleBuffered,
		front:    make([]uint8, n),
	}
	if doubleBuffered {
		b.back = make([]uint8, n)
	}
	return b
}

// Stride returns the row stride in cells (the backing width).
func (b *RenderBuffer) Stride() int { return b.maxW }

// Write returns the pixel slice the render worker should rasterize into.
func (b *RenderBuffer) Write() []uint8 {
	if b.buffered {
		return b.back
	}
	return b.front
}

// Present publishes the most recent rasterization. A no-op when
// single-buffered; with double buffering it swaps front and back.
func (b *RenderBuffer) Present() {
	if !b.buffered {
		return
	}
	b.mu.Lock()
	b.front, b.back = b.back, b.front
	b.mu.Unlock()
}

// Read returns the pixels the display layer should show. When
// single-buffered this is the same memory the render worker is writing.
func (b *RenderBuffer) Read() []uint8 {
	if !b.buffered {
		return b.front
	}
	b.mu.Lock()
	p := b.front
	b.mu.Unlock()
	return p
}
