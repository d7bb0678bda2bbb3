package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TrailBuffer accumulates frames in an offscreen texture. Each frame a
// translucent background quad fades what was drawn before, leaving trails.
type TrailBuffer struct {
	target      rl.RenderTexture2D
	width       int32
	height      int32
	background  rl.Color
	fade        float32
	initialized bool
}

// NewTrailBuffer creates a trail buffer. fade is the background alpha laid
// over every frame; 1 clears completely.
func NewTrailBuffer(width, height int32, background rl.Color, fade float64) *TrailBuffer {
	return &TrailBuffer{
		width:      width,
		height:     height,
		background: background,
		fade:       float32(fade),
	}
}

// Init allocates the texture (must be called after the raylib window is created).
func (t *TrailBuffer) Init() {
	if t.initialized {
		return
	}
	t.target = rl.LoadRenderTexture(t.width, t.height)
	t.initialized = true
	t.Clear()
}

// Clear wipes the accumulated trails.
func (t *TrailBuffer) Clear() {
	if !t.initialized {
		return
	}
	rl.BeginTextureMode(t.target)
	rl.ClearBackground(t.background)
	rl.EndTextureMode()
}

// Begin starts drawing a frame into the buffer.
func (t *TrailBuffer) Begin() {
	if !t.initialized {
		t.Init()
	}
	rl.BeginTextureMode(t.target)
	rl.DrawRectangle(0, 0, t.width, t.height, rl.Fade(t.background, t.fade))
}

// End finishes the frame.
func (t *TrailBuffer) End() {
	rl.EndTextureMode()
}

// Draw blits the buffer to the screen. Render textures are stored upside
// down, hence the negative source height.
func (t *TrailBuffer) Draw() {
	if !t.initialized {
		return
	}
	src := rl.Rectangle{Width: float32(t.width), Height: -float32(t.height)}
	rl.DrawTextureRec(t.target.Texture, src, rl.Vector2{}, rl.White)
}

// Resize reallocates the texture for a new screen size, dropping trails.
func (t *TrailBuffer) Resize(width, height int32) {
	if width == t.width && height == t.height {
		return
	}
	wasInit := t.initialized
	t.Unload()
	t.width, t.height = width, height
	if wasInit {
		t.Init()
	}
}

// SetFade changes the per-frame fade alpha.
func (t *TrailBuffer) SetFade(fade float64) {
	t.fade = float32(fade)
}

// Unload frees resources.
func (t *TrailBuffer) Unload() {
	if t.initialized {
		rl.UnloadRenderTexture(t.target)
		t.initialized = false
	}
}

func tanHalf(fovDegrees float64) float64 {
	return math.Tan(fovDegrees * math.Pi / 360)
}
