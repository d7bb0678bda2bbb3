package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orbit angles per pixel of mouse drag and per frame of arrow key.
const (
	orbitPerPixel = 0.005
	orbitPerKey   = 0.04
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.SetPaused(!g.paused)
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < stepsPerUpdateMax {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyR) {
		g.reseed()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.nextPalette()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot(nil)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	g.handleOverlayKeys()

	mouse := rl.GetMousePosition()
	if g.controls.Contains(mouse.X, mouse.Y, g.overlays) {
		return
	}
	g.handleCameraInput()
	g.inspector.HandleInput(mouse.X, mouse.Y, g.particles.Sprites())
}

// reseed restarts with a random seed, logging failures.
func (g *Game) reseed() {
	if err := g.Reseed(""); err != nil {
		slog.Error("reseed failed", "error", err)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(float64(w), float64(h))
	g.trails.Resize(int32(w), int32(h))
	g.inspector.Resize(int32(w), int32(h))
	g.perfPanel.SetPosition(int32(w)-260, int32(h)-120)
}

// handleCameraInput processes orbit and zoom controls.
func (g *Game) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			g.camera.Orbit(-float64(d.X)*orbitPerPixel, float64(d.Y)*orbitPerPixel)
		}
	}

	step := orbitPerKey
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Orbit(step, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Orbit(-step, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Orbit(0, step)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Orbit(0, -step)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
