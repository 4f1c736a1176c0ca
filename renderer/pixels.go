package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/DDR0/stardust/camera"
	"github.com/DDR0/stardust/world"
)

// PixelRenderer uploads the shared pixel region to a GPU texture and scales
// it to the window. The texture tracks the simulation bounds, not the backing
// capacity, so only visible rows get converted and uploaded each frame.
type PixelRenderer struct {
	tex         rl.Texture2D
	texW, texH  int
	pixels      []color.RGBA
	initialized bool
}

// NewPixelRenderer creates a renderer. Init happens lazily on the first Draw
// because textures need a live window.
func NewPixelRenderer() *PixelRenderer {
	return &PixelRenderer{}
}

func (r *PixelRenderer) resize(w, h int) {
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}
	img := rl.GenImageColor(w, h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	r.texW, r.texH = w, h
	r.pixels = make([]color.RGBA, w*h)
	r.initialized = true
}

// Draw converts the current bounds of the pixel region to RGBA, uploads it,
// and draws the camera's view of it over the window. The buffer is read
// without synchronization when single-buffered; a torn frame lasts one
// refresh.
func (r *PixelRenderer) Draw(buf *world.RenderBuffer, cam *camera.Camera, w, h int) {
	if w < 1 || h < 1 {
		return
	}
	if !r.initialized || w != r.texW || h != r.texH {
		r.resize(w, h)
	}

	src := buf.Read()
	stride := buf.Stride() * 3
	for y := 0; y < h; y++ {
		row := src[y*stride:]
		for x := 0; x < w; x++ {
			r.pixels[y*w+x] = color.RGBA{
				R: row[x*3],
				G: row[x*3+1],
				B: row[x*3+2],
				A: 255,
			}
		}
	}
	rl.UpdateTexture(r.tex, r.pixels)

	vx, vy, vw, vh := cam.View()
	srcRect := rl.Rectangle{X: vx, Y: vy, Width: vw, Height: vh}
	dstRect := rl.Rectangle{Width: cam.ViewportW, Height: cam.ViewportH}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload releases the GPU texture.
func (r *PixelRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.tex)
		r.initialized = false
	}
}
