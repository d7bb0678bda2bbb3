package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/spherefield/components"
	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/noise"
	"github.com/pthm-cable/spherefield/rng"
	"github.com/pthm-cable/spherefield/systems"
)

// FieldParams holds the editable field parameters.
type FieldParams struct {
	Seed       rng.Seed
	Backend    string
	Resolution float64
	AngleScale float64
	Radius     float64
	Octaves    int
	Lacunarity float64
	Gain       float64
}

func paramsFromConfig(sim config.SimulationConfig) FieldParams {
	scale := sim.AngleScale
	if scale == 0 {
		scale = systems.DefaultAngleScale
	}
	return FieldParams{
		Seed:       rng.Seed(sim.Seed),
		Backend:    sim.Noise.Backend,
		Resolution: sim.Resolution,
		AngleScale: scale,
		Radius:     sim.Radius,
		Octaves:    max(sim.Noise.Octaves, 1),
		Lacunarity: sim.Noise.Lacunarity,
		Gain:       sim.Noise.Gain,
	}
}

// apply writes the parameters over sim.
func (p FieldParams) apply(sim config.SimulationConfig) config.SimulationConfig {
	sim.Seed = string(p.Seed)
	sim.Noise.Backend = p.Backend
	sim.Resolution = p.Resolution
	sim.AngleScale = p.AngleScale
	sim.Radius = p.Radius
	sim.Noise.Octaves = p.Octaves
	sim.Noise.Lacunarity = p.Lacunarity
	sim.Noise.Gain = p.Gain
	return sim
}

// YAML returns the simulation keys these parameters map to.
func (p FieldParams) YAML() []string {
	return []string{
		"simulation:",
		fmt.Sprintf("  seed: %q", p.Seed),
		fmt.Sprintf("  radius: %.0f", p.Radius),
		fmt.Sprintf("  resolution: %.3f", p.Resolution),
		fmt.Sprintf("  angle_scale: %.3f", p.AngleScale),
		"  noise:",
		fmt.Sprintf("    backend: %s", p.Backend),
		fmt.Sprintf("    octaves: %d", p.Octaves),
		fmt.Sprintf("    lacunarity: %.2f", p.Lacunarity),
		fmt.Sprintf("    gain: %.2f", p.Gain),
	}
}

// Sample builds the field the engine would build for these parameters and
// samples it on a w x h equirectangular grid.
func (p FieldParams) Sample(base config.SimulationConfig, w, h int) (*FieldGrid, error) {
	sim := p.apply(base)
	if err := sim.Validate(); err != nil {
		return nil, err
	}
	field, err := systems.BuildVectorField(rng.New(p.Seed), sim)
	if err != nil {
		return nil, err
	}
	return SampleGrid(field, sim.Radius, w, h), nil
}

// FieldGrid is a field sampled at cell centres. Row 0 is the north pole,
// column 0 is theta = -pi.
type FieldGrid struct {
	W, H int
	Dir  []r2.Vec
}

// SampleGrid samples field over the sphere of the given radius.
func SampleGrid(field systems.VectorField, radius float64, w, h int) *FieldGrid {
	g := &FieldGrid{W: w, H: h, Dir: make([]r2.Vec, w*h)}
	for y := range h {
		phi := (float64(y) + 0.5) / float64(h) * math.Pi
		for x := range w {
			theta := (float64(x)+0.5)/float64(w)*2*math.Pi - math.Pi
			pos := systems.ToCartesian(components.Spherical{Theta: theta, Phi: phi}, radius)
			g.Dir[y*w+x] = field(pos.X, pos.Y, pos.Z)
		}
	}
	return g
}

// Colors maps each direction to a hue, for upload as an RGBA texture.
func (g *FieldGrid) Colors() []color.RGBA {
	out := make([]color.RGBA, len(g.Dir))
	for i, d := range g.Dir {
		out[i] = directionColor(d)
	}
	return out
}

func directionColor(d r2.Vec) color.RGBA {
	hue := math.Atan2(d.Y, d.X) * 180 / math.Pi
	if hue < 0 {
		hue += 360
	}
	r, g, b := colorful.Hsv(hue, 0.75, 0.95).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// turns returns the angle between horizontally adjacent directions.
func (g *FieldGrid) turns() []float64 {
	out := make([]float64, 0, len(g.Dir))
	for y := range g.H {
		for x := 1; x < g.W; x++ {
			a := g.Dir[y*g.W+x-1]
			b := g.Dir[y*g.W+x]
			out = append(out, math.Abs(math.Atan2(r2.Cross(a, b), r2.Dot(a, b))))
		}
	}
	return out
}

// MeanTurn returns the mean direction change between neighbouring cells.
func (g *FieldGrid) MeanTurn() float64 {
	t := g.turns()
	if len(t) == 0 {
		return 0
	}
	var sum float64
	for _, v := range t {
		sum += v
	}
	return sum / float64(len(t))
}

// MaxTurn returns the largest direction change between neighbouring cells.
func (g *FieldGrid) MaxTurn() float64 {
	var m float64
	for _, v := range g.turns() {
		m = max(m, v)
	}
	return m
}

func nextBackend(b string) string {
	if noise.Backend(b) == noise.BackendPerlin {
		return string(noise.BackendSimplex)
	}
	return string(noise.BackendPerlin)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
