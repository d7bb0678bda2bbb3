// Vector field preview tool - interactive equirectangular map of the flow
// field with sliders.
//
// Usage: go run ./cmd/fieldpreview [--config path]
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/rng"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 720
	previewH     = previewW / 2
	panelWidth   = windowWidth - previewW - 30
	gridW        = 360
	gridH        = gridW / 2
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	flag.Parse()

	base, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Vector Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := paramsFromConfig(base.Simulation)
	if params.Seed == "" {
		params.Seed = rng.SeedFromInt(12345)
	}

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var grid *FieldGrid
	showArrows := true
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			g, err := params.Sample(base.Simulation, gridW, gridH)
			if err != nil {
				log.Printf("sampling field: %v", err)
			} else {
				grid = g
				rl.UpdateTexture(texture, grid.Colors())
			}
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridW, Height: gridH},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)
		if showArrows && grid != nil {
			drawArrows(grid, 10, 10)
		}

		statsY := int32(previewH + 25)
		rl.DrawText("Hue = flow direction in the x/y plane. Left edge is theta = -pi, top is the north pole.", 15, statsY, 14, rl.DarkGray)
		if grid != nil {
			rl.DrawText(fmt.Sprintf("Turning: mean %.3f rad/cell  max %.3f rad/cell", grid.MeanTurn(), grid.MaxTurn()), 15, statsY+20, 16, rl.DarkGray)
		}
		rl.DrawText(fmt.Sprintf("Seed: %s", params.Seed), 15, statsY+40, 16, rl.DarkGray)

		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Vector Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		params.Resolution, changed = slider(&panelY, panelX, "Resolution (noise frequency)", "%.3f", params.Resolution, 0.005, 0.5, changed)
		params.AngleScale, changed = slider(&panelY, panelX, "Angle scale (noise to radians)", "%.2f", params.AngleScale, 0.5, 12.0, changed)
		params.Radius, changed = slider(&panelY, panelX, "Radius", "%.0f", params.Radius, 5, 200, changed)
		octaves, _ := slider(&panelY, panelX, "Octaves (fBm detail)", "%.0f", float64(params.Octaves), 1, 6, false)
		if n := int(math.Round(octaves)); n != params.Octaves {
			params.Octaves = n
			changed = true
		}
		params.Lacunarity, changed = slider(&panelY, panelX, "Lacunarity (frequency multiplier)", "%.2f", params.Lacunarity, 1.5, 4.0, changed)
		params.Gain, changed = slider(&panelY, panelX, "Gain (amplitude multiplier)", "%.2f", params.Gain, 0.2, 0.9, changed)
		if changed {
			needsRegen = true
		}

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Backend: "+params.Backend) {
			params.Backend = nextBackend(params.Backend)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(showArrows, "Hide Arrows", "Show Arrows")) {
			showArrows = !showArrows
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = rng.New("").Seed()
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = paramsFromConfig(base.Simulation)
			if params.Seed == "" {
				params.Seed = rng.SeedFromInt(12345)
			}
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := params.YAML()
		for _, line := range yaml {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(joinLines(yaml))
		}

		rl.EndDrawing()
	}
}

// slider draws one labelled slider and advances y. changed is sticky.
func slider(y *float32, x float32, label, format string, value, lo, hi float64, changed bool) (float64, bool) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		float32(value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if float64(next) != float64(float32(value)) {
		return float64(next), true
	}
	return value, changed
}

// drawArrows overlays a coarse grid of direction ticks.
func drawArrows(grid *FieldGrid, ox, oy int32) {
	const step = 20
	sx := float32(previewW) / float32(grid.W)
	sy := float32(previewH) / float32(grid.H)
	for y := step / 2; y < grid.H; y += step {
		for x := step / 2; x < grid.W; x += step {
			d := grid.Dir[y*grid.W+x]
			cx := float32(ox) + (float32(x)+0.5)*sx
			cy := float32(oy) + (float32(y)+0.5)*sy
			// Screen y grows downwards
			end := rl.Vector2{X: cx + float32(d.X)*12, Y: cy - float32(d.Y)*12}
			rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, end, 1.5, rl.Black)
			rl.DrawCircleV(end, 2, rl.Black)
		}
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
