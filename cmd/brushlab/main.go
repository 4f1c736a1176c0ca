// Scene seeding preview tool - interactive visualization with sliders.
//
// Regenerates a small world from the scene parameters on every change and
// lets you paint species into it by hand to try out brush behavior.
//
// Usage: go run ./cmd/brushlab
package main

import (
	"fmt"
	"image/color"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/DDR0/stardust/scene"
	"github.com/DDR0/stardust/species"
	"github.com/DDR0/stardust/world"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Scene Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := scene.DefaultParams(12345)

	w := world.New(gridSize, gridSize)
	pixels := make([]color.RGBA, gridSize*gridSize)
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	brush := species.Sand
	needsRegen := true

	for !rl.WindowShouldClose() {
		// Seed rewrites every cell, so regeneration needs no separate clear.
		if needsRegen {
			scene.Seed(w, params)
			needsRegen = false
		}

		// Painting into the preview goes through the same per-cell locks
		// the simulation uses, even though nothing contends here.
		if rl.IsMouseButtonDown(rl.MouseLeftButton) {
			paint(w, rl.GetMousePosition(), brush)
		}
		if rl.IsMouseButtonDown(rl.MouseRightButton) {
			paint(w, rl.GetMousePosition(), species.Air)
		}

		updateTexture(texture, w, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(gridSize), Height: float32(gridSize)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Scene Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Scale (terrain noise frequency)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.005", "0.15",
			float32(params.Scale), 0.005, 0.15,
		)
		rl.DrawText(fmt.Sprintf("%.3f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newScale) != params.Scale {
			params.Scale = float64(newScale)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Threshold (wall density)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newThreshold := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.3", "0.9",
			float32(params.Threshold), 0.3, 0.9,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Threshold), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newThreshold) != params.Threshold {
			params.Threshold = float64(newThreshold)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Sand fill", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSand := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "0.5",
			float32(params.SandFill), 0, 0.5,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.SandFill), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newSand) != params.SandFill {
			params.SandFill = float64(newSand)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Water fill", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newWater := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "0.3",
			float32(params.WaterFill), 0, 0.3,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.WaterFill), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if float64(newWater) != params.WaterFill {
			params.WaterFill = float64(newWater)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = rand.Int63()
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = scene.DefaultParams(12345)
			needsRegen = true
		}
		panelY += 45

		rl.DrawText("Brush", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 20
		for i, b := range []struct {
			name string
			id   uint16
		}{
			{"Sand", species.Sand},
			{"Water", species.Water},
			{"Fire", species.Fire},
			{"Wall", species.Wall},
		} {
			label := b.name
			if b.id == brush {
				label = "> " + label
			}
			if gui.Button(rl.Rectangle{X: panelX + float32(i*110), Y: panelY, Width: 100, Height: 26}, label) {
				brush = b.id
			}
		}
		panelY += 40

		rl.DrawText(fmt.Sprintf("seed: %d", params.Seed), int32(panelX), int32(panelY), 14, rl.Gray)
		rl.DrawText("LMB: paint  RMB: erase", int32(panelX), int32(panelY+20), 14, rl.Gray)

		rl.EndDrawing()
	}
}

// paint stamps the brush species at the cell under the cursor.
func paint(w *world.World, pos rl.Vector2, id uint16) {
	x := (int(pos.X) - 10) * gridSize / previewSize
	y := (int(pos.Y) - 10) * gridSize / previewSize
	if !w.InBounds(x, y) {
		return
	}
	idx := w.Index(x, y)
	if claim, ok := w.Acquire(idx, world.OwnerHost); ok {
		species.Materialize(&w.Cells, idx, id, w.Tick())
		claim.Release()
	}
}

// updateTexture converts the packed cell colors to RGBA and uploads them.
func updateTexture(texture rl.Texture2D, w *world.World, pixels []color.RGBA) {
	bw, bh := w.Bounds()
	for y := 0; y < bh; y++ {
		for x := 0; x < bw; x++ {
			c := w.Cells.Color[w.Index(x, y)]
			pixels[y*gridSize+x] = color.RGBA{
				R: uint8(c >> 16),
				G: uint8(c >> 8),
				B: uint8(c),
				A: 255,
			}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
