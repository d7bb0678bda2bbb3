package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spherefield/camera"
	"github.com/pthm-cable/spherefield/systems"
)

// Sprite is one particle projected onto the screen.
type Sprite struct {
	Index int // particle index in the population
	X, Y  float32
	Size  float32
	Back  bool // on the far hemisphere
}

// minSpriteSize keeps distant particles visible.
const minSpriteSize = 1

// Project projects every particle of e through cam into dst. pointSize is
// in world units. Particles behind the camera are skipped.
func Project(e *systems.Engine, cam *camera.Camera, pointSize float64, dst []Sprite) []Sprite {
	dst = dst[:0]
	focal := cam.ViewportH / 2 / tanHalf(cam.FovY)
	for i := 0; i < e.Population().Len(); i++ {
		p := e.Cartesian(i)
		sx, sy, depth, ok := cam.Project(p)
		if !ok {
			continue
		}
		size := float32(pointSize * focal / depth)
		if size < minSpriteSize {
			size = minSpriteSize
		}
		dst = append(dst, Sprite{
			Index: i,
			X:     float32(sx),
			Y:     float32(sy),
			Size:  size,
			Back:  !cam.Facing(p),
		})
	}
	return dst
}

// ParticleRenderer draws projected particles as small squares.
type ParticleRenderer struct {
	HideBack bool // skip the far hemisphere
	sprites  []Sprite
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw projects and renders the population in a single colour. Particles on
// the far hemisphere are drawn at half alpha.
func (r *ParticleRenderer) Draw(e *systems.Engine, cam *camera.Camera, pointSize float64, color rl.Color) {
	r.sprites = Project(e, cam, pointSize, r.sprites)

	back := color
	back.A /= 2
	for _, s := range r.sprites {
		c := color
		if s.Back {
			if r.HideBack {
				continue
			}
			c = back
		}
		half := s.Size / 2
		rl.DrawRectangleV(rl.Vector2{X: s.X - half, Y: s.Y - half}, rl.Vector2{X: s.Size, Y: s.Size}, c)
	}
}

// Sprites returns the sprites drawn last frame.
func (r *ParticleRenderer) Sprites() []Sprite {
	return r.sprites
}

// Count returns the number of particles projected last frame.
func (r *ParticleRenderer) Count() int {
	return len(r.sprites)
}
