package main

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/spherefield/camera"
	"github.com/pthm-cable/spherefield/systems"
)

// ramp maps cell density to glyphs, sparse to dense.
var ramp = []rune(" .:-=+*#%@")

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2

// Cell accumulates the particles that land in one terminal cell.
type Cell struct {
	Front, Back int
}

// Raster is a density grid in terminal cells.
type Raster struct {
	W, H  int
	Cells []Cell
	peak  int
}

// NewRaster allocates a w x h raster.
func NewRaster(w, h int) *Raster {
	return &Raster{W: w, H: h, Cells: make([]Cell, w*h)}
}

// Reset clears every cell, resizing when the terminal changed.
func (r *Raster) Reset(w, h int) {
	if w != r.W || h != r.H {
		*r = *NewRaster(w, h)
		return
	}
	clear(r.Cells)
	r.peak = 0
}

// Rasterize projects every particle of e through cam. The camera viewport
// must be set to W x H*cellAspect.
func (r *Raster) Rasterize(e *systems.Engine, cam *camera.Camera, hideBack bool) {
	for i := range e.Population().Len() {
		p := e.Cartesian(i)
		sx, sy, _, ok := cam.Project(p)
		if !ok {
			continue
		}
		x, y := int(sx), int(sy/cellAspect)
		if x < 0 || y < 0 || x >= r.W || y >= r.H {
			continue
		}
		c := &r.Cells[y*r.W+x]
		if cam.Facing(p) {
			c.Front++
		} else if !hideBack {
			c.Back++
		}
		r.peak = max(r.peak, c.Front+c.Back)
	}
}

// Glyph returns the density glyph of cell (x, y) and whether any front
// particle landed there.
func (r *Raster) Glyph(x, y int) (rune, bool) {
	c := r.Cells[y*r.W+x]
	n := c.Front + c.Back
	if n == 0 || r.peak == 0 {
		return ' ', false
	}
	idx := 1 + (n-1)*(len(ramp)-1)/r.peak
	return ramp[min(idx, len(ramp)-1)], c.Front > 0
}

// shade dims back-only cells towards the background.
func shade(c, bg colorful.Color, front bool) colorful.Color {
	if front {
		return c
	}
	return c.BlendLab(bg, 0.6).Clamped()
}
