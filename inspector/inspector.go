// Package inspector shows the state of one selected particle.
package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spherefield/renderer"
	"github.com/pthm-cable/spherefield/systems"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
	hitTolerance = 6
	cellLevel    = 10
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// ParticleView is the inspected state of one particle.
type ParticleView struct {
	Index        int     `inspect:"label"`
	Theta        float64 `inspect:"angle"`
	Latitude     float64 `inspect:"label,fmt:%.2f deg"`
	Position     string  `inspect:"label,name:XYZ"`
	Speed        float64 `inspect:"bar,max:0.2,fmt:%.4f"`
	Heading      float64 `inspect:"angle"`
	Field        float64 `inspect:"label,name:Field |f|,fmt:%.4f"`
	TangentError float64 `inspect:"label,name:|v.n|/|v|,fmt:%.1e"`
	Cell         string  `inspect:"label,name:S2 cell"`
	NearDormant  bool    `inspect:"bool,name:Dormant"`
}

// NewView reads particle i of e.
func NewView(e *systems.Engine, i int) ParticleView {
	p := e.Population().At(i)
	c := e.Cartesian(i)
	n := systems.SurfaceNormal(p.Position)
	speed := p.Speed()

	sinTheta, cosTheta := math.Sincos(p.Position.Theta)
	sinPhi, cosPhi := math.Sincos(p.Position.Phi)
	east := r3.Vec{X: -sinTheta, Y: cosTheta}
	north := r3.Vec{X: -cosPhi * cosTheta, Y: -cosPhi * sinTheta, Z: sinPhi}

	v := ParticleView{
		Index:       i,
		Theta:       p.Position.Theta,
		Latitude:    90 - p.Position.Phi*180/math.Pi,
		Position:    fmt.Sprintf("(%.1f, %.1f, %.1f)", c.X, c.Y, c.Z),
		Speed:       speed,
		Heading:     math.Atan2(r3.Dot(p.Velocity, north), r3.Dot(p.Velocity, east)),
		Field:       r2.Norm(e.Field()(c.X, c.Y, c.Z)),
		Cell:        s2.CellFromPoint(s2.PointFromCoords(c.X, c.Y, c.Z)).ID().Parent(cellLevel).ToToken(),
		NearDormant: speed < 2*e.Config().DormancyThreshold,
	}
	if speed > 0 {
		v.TangentError = math.Abs(r3.Dot(p.Velocity, n)) / speed
	}
	return v
}

// Pick returns the particle whose sprite is nearest (x, y), within the
// sprite size plus a small tolerance. Front-hemisphere sprites win ties.
func Pick(sprites []renderer.Sprite, x, y float32) (int, bool) {
	best := -1
	bestDist := float32(math.MaxFloat32)
	bestBack := true
	for _, s := range sprites {
		dx := x - s.X
		dy := y - s.Y
		dist := dx*dx + dy*dy
		hit := s.Size/2 + hitTolerance
		if dist > hit*hit {
			continue
		}
		if (bestBack && !s.Back) || (bestBack == s.Back && dist < bestDist) {
			best = s.Index
			bestDist = dist
			bestBack = s.Back
		}
	}
	return best, best >= 0
}

// Inspector manages particle selection and panel rendering.
type Inspector struct {
	selected     int
	hasSelected  bool
	panelX       int32
	panelY       int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize moves the panel to the right edge of the new screen size.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// HandleInput processes click selection against last frame's sprites.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, sprites []renderer.Sprite) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
			int32(mouseY) >= closeY && int32(mouseY) <= closeY+20 {
			ins.Deselect()
			return
		}
		if int32(mouseX) >= ins.panelX && int32(mouseX) <= ins.panelX+PanelWidth &&
			int32(mouseY) >= ins.panelY {
			return
		}
	}

	if i, ok := Pick(sprites, mouseX, mouseY); ok {
		ins.Select(i)
	}
}

// Select marks particle i as selected.
func (ins *Inspector) Select(i int) {
	ins.selected = i
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected particle index.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.hasSelected
}

// Draw renders the inspector panel if a particle is selected.
func (ins *Inspector) Draw(e *systems.Engine) {
	if !ins.hasSelected {
		return
	}
	if ins.selected >= e.Population().Len() {
		ins.Deselect()
		return
	}

	fields := ExtractFields(NewView(e, ins.selected))
	panelHeight := int32(HeaderHeight + 2*PanelPadding)
	for _, f := range fields {
		panelHeight += FieldHeight(f)
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("PARTICLE", ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

// DrawSelectionHighlight circles the selected particle's sprite.
func (ins *Inspector) DrawSelectionHighlight(sprites []renderer.Sprite) {
	if !ins.hasSelected {
		return
	}
	for _, s := range sprites {
		if s.Index == ins.selected {
			rl.DrawCircleLines(int32(s.X), int32(s.Y), s.Size+hitTolerance, rl.Yellow)
			return
		}
	}
}
