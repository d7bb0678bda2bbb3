package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spherefield/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title           string
	Seed            string
	Particles       int
	Drawn           int
	Respawns        uint64
	Tick            int32
	FPS             int32
	Paused          bool
	EffectiveRadius float64
	BaseRadius      float64
	Signal          float64
	Intensity       float64
	Palette         string
	Color           rl.Color
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	stats    PanelDescriptor
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		stats:    StatsPanel(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Seed: %s | Particles: %d (%d drawn) | Respawns: %d", data.Seed, data.Particles, data.Drawn, data.Respawns),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Palette: %s", data.Tick, data.FPS, data.Palette),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	h.renderer.DrawPanelDescriptor(10, 100, h.stats, data)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// StatsPanel describes the live signal and radius readout.
func StatsPanel() PanelDescriptor {
	hud := func(d any) HUDData { return d.(HUDData) }
	return PanelDescriptor{
		ID:    "stats",
		Width: 240,
		Sections: []SectionDescriptor{
			{
				ID:    "signal",
				Title: "Signal",
				Fields: []FieldDescriptor{
					{ID: "level", Label: "Level", Widget: WidgetBar, Range: DefaultRange(),
						Getter: func(d any) float32 { return float32(hud(d).Signal) }},
					{ID: "intensity", Label: "Intensity", Widget: WidgetBar, Range: DefaultRange(),
						Getter: func(d any) float32 { return float32(hud(d).Intensity) }},
				},
			},
			{
				ID:    "sphere",
				Title: "Sphere",
				Fields: []FieldDescriptor{
					{ID: "radius", Label: "Radius", Widget: WidgetText, Format: "%.2f",
						Getter: func(d any) float32 { return float32(hud(d).EffectiveRadius) }},
					{ID: "offset", Label: "Offset", Widget: WidgetCenteredBar, Range: CenteredRange(),
						Visible: func(d any) bool { return hud(d).BaseRadius > 0 },
						Getter: func(d any) float32 {
							h := hud(d)
							return float32(h.EffectiveRadius/h.BaseRadius - 1)
						}},
					{ID: "color", Label: "Color", Widget: WidgetColorSwatch,
						ColorGetter: func(d any) rl.Color { return hud(d).Color }},
				},
			},
		},
	}
}

// PerfPanel renders the tick phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// PerfLines formats one line per phase, in execution order, then the
// step cost per thousand particles and the particle throughput.
func PerfLines(stats telemetry.PerfStats) []string {
	lines := make([]string, 0, len(telemetry.Phases))
	for _, phase := range telemetry.Phases {
		lines = append(lines, fmt.Sprintf("%-10s %8s %5.1f%%",
			phase, stats.PhaseAvg[phase].Round(time.Microsecond), stats.PhasePct[phase]))
	}
	return append(lines, fmt.Sprintf("%-10s %8s %.1fM/s",
		"per 1k", stats.StepPer1K.Round(time.Microsecond/10), stats.ParticleRate/1e6))
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f/s)", stats.AvgTick.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for i, line := range PerfLines(stats) {
		color := rl.LightGray
		if i >= len(telemetry.Phases) {
			rl.DrawText(line, x, y, 12, color)
			break
		}
		pct := stats.PhasePct[telemetry.Phases[i]]
		if pct > 60 {
			color = rl.Red
		} else if pct > 30 {
			color = rl.Orange
		}
		rl.DrawText(line, x, y, 12, color)
		y += 14
	}
}
