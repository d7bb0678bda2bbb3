package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spherefield/renderer"
	"github.com/pthm-cable/spherefield/ui"
)

const controlsLegend = "Drag: orbit | Wheel: zoom | Space: pause | R: reseed | C: palette | S: snapshot | Tab: panel | </>: speed"

// Draw renders the current frame.
func (g *Game) Draw() {
	color := g.currentColor()

	g.trails.Begin()
	g.particles.Draw(g.engine, g.camera, g.cfg.Camera.PointSize, renderer.ToRL(color, 255))
	g.trails.End()

	rl.BeginDrawing()
	rl.ClearBackground(renderer.ToRL(g.background, 255))
	g.trails.Draw()

	g.drawActiveOverlays()
	g.inspector.DrawSelectionHighlight(g.particles.Sprites())
	g.drawUI(renderer.ToRL(color, 255))

	rl.EndDrawing()
}

// drawUI renders the HUD, controls and inspector.
func (g *Game) drawUI(color rl.Color) {
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		mod := g.engine.Modulation()
		g.hud.Draw(ui.HUDData{
			Title:           "spherefield",
			Seed:            string(g.engine.Seed()),
			Particles:       g.engine.Population().Len(),
			Drawn:           g.particles.Count(),
			Respawns:        g.engine.Respawns(),
			Tick:            g.tick,
			FPS:             rl.GetFPS(),
			Paused:          g.paused,
			EffectiveRadius: mod.Radius,
			BaseRadius:      g.engine.Config().Radius,
			Signal:          g.level,
			Intensity:       mod.Intensity,
			Palette:         g.paletteName,
			Color:           color,
		})
		g.hud.DrawControls(int32(g.screenHeight), fmt.Sprintf("%s | x%d", controlsLegend, g.stepsPerUpdate))
	}

	act := g.controls.Draw(g.overlays, g.paused)
	if act.Reseed {
		g.reseed()
	}
	if act.ResetCamera {
		g.camera.Reset()
	}
	if act.TogglePause {
		g.SetPaused(!g.paused)
	}
	if act.NextPalette {
		g.nextPalette()
	}

	g.inspector.Draw(g.engine)
}
