package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Actions are the button presses of one frame.
type Actions struct {
	Reseed      bool
	ResetCamera bool
	TogglePause bool
	NextPalette bool
}

// Any reports whether any button was pressed.
func (a Actions) Any() bool {
	return a.Reseed || a.ResetCamera || a.TogglePause || a.NextPalette
}

// ControlsPanel renders the overlay toggles and simulation buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether the screen point lies on the visible panel.
func (c *ControlsPanel) Contains(x, y float32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	h := c.height(overlays)
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+h)
}

const buttonHeight = 24

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	r := c.renderer
	items := 0
	for _, cat := range overlays.Categories() {
		items += len(overlays.ByCategory(cat)) + 1
	}
	return int32(items)*r.Theme.LineHeight + r.Theme.LineHeight + 4 + 2*(buttonHeight+6) + r.Theme.Padding*3
}

// Draw renders the panel and returns the buttons pressed this frame.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, paused bool) Actions {
	var act Actions
	if !c.visible {
		return act
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
	}

	y += padding
	half := float32(c.width-padding*3) / 2
	left := float32(c.x + padding)
	right := left + half + float32(padding)

	act.Reseed = gui.Button(rl.Rectangle{X: left, Y: float32(y), Width: half, Height: buttonHeight}, "Reseed")
	act.ResetCamera = gui.Button(rl.Rectangle{X: right, Y: float32(y), Width: half, Height: buttonHeight}, "Reset View")
	y += buttonHeight + 6
	act.TogglePause = gui.Button(rl.Rectangle{X: left, Y: float32(y), Width: half, Height: buttonHeight}, toggleText(paused, "Resume", "Pause"))
	act.NextPalette = gui.Button(rl.Rectangle{X: right, Y: float32(y), Width: half, Height: buttonHeight}, "Palette")

	return act
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
