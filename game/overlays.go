package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spherefield/ui"
)

// handleOverlayKeys toggles overlays from their registered keys.
func (g *Game) handleOverlayKeys() {
	for _, key := range g.overlays.Keys() {
		if !rl.IsKeyPressed(key) {
			continue
		}
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay", "id", string(id), "enabled", on)
		}
	}
	g.applyOverlays()
}

// applyOverlays pushes overlay state into the renderers.
func (g *Game) applyOverlays() {
	g.particles.HideBack = !g.overlays.IsEnabled(ui.OverlayBackside)
	if g.overlays.IsEnabled(ui.OverlayTrails) {
		g.trails.SetFade(g.cfg.Screen.Fade)
	} else {
		g.trails.SetFade(1)
	}
}

// drawAxes draws the x, y and z axes through the sphere, in world space.
func (g *Game) drawAxes() {
	r := g.engine.EffectiveRadius() * 1.2
	axes := []struct {
		dir   r3.Vec
		color rl.Color
	}{
		{r3.Vec{X: r}, rl.Red},
		{r3.Vec{Y: r}, rl.Green},
		{r3.Vec{Z: r}, rl.SkyBlue},
	}
	for _, a := range axes {
		x0, y0, _, ok0 := g.camera.Project(r3.Scale(-1, a.dir))
		x1, y1, _, ok1 := g.camera.Project(a.dir)
		if !ok0 || !ok1 {
			continue
		}
		rl.DrawLineV(
			rl.Vector2{X: float32(x0), Y: float32(y0)},
			rl.Vector2{X: float32(x1), Y: float32(y1)},
			rl.Fade(a.color, 0.6),
		)
	}
}

// drawActiveOverlays draws the screen-space overlays.
func (g *Game) drawActiveOverlays() {
	if g.overlays.IsEnabled(ui.OverlayAxes) {
		g.drawAxes()
	}
	if g.overlays.IsEnabled(ui.OverlaySpectrum) && g.monitor.Active() {
		w := int32(g.screenWidth) / 3
		h := int32(80)
		x := int32(g.screenWidth) - w - 10
		y := int32(g.screenHeight) - h - 140
		ui.NewRenderer().DrawSpectrum(x, y, w, h, g.monitor.Bins(), g.cfg.Signal.Bin)
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}
}
