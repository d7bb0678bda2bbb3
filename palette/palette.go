// Package palette maps a ratio in [0, 1] to a colour.
package palette

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownPalette is returned by Get for names it does not know.
var ErrUnknownPalette = errors.New("unknown palette")

// Gradient returns the colour at ratio. Ratios outside [0, 1] clamp to the
// end colours.
type Gradient func(ratio float64) colorful.Color

// Blend interpolates between two colours.
type Blend func(a, b colorful.Color, t float64) colorful.Color

// BlendLab interpolates in CIE L*a*b*.
func BlendLab(a, b colorful.Color, t float64) colorful.Color { return a.BlendLab(b, t) }

// BlendRGB interpolates in sRGB.
func BlendRGB(a, b colorful.Color, t float64) colorful.Color { return a.BlendRgb(b, t) }

var csvPalettes = map[string]string{
	"forest":  "#386641, #6a994e, #a7c957, #f2e8cf, #bc4749",
	"pastel":  "#264653, #2a9d8f, #e9c46a, #f4a261, #e76f51",
	"fire":    "#03071e, #370617, #6a040f, #9d0208, #d00000, #dc2f02, #e85d04, #f48c06, #faa307, #ffba08",
	"ice":     "#03045e, #023e8a, #0077b6, #0096c7, #00b4d8, #48cae4, #90e0ef, #ade8f4, #caf0f8",
	"bicolor": "#ff6d00, #ff7900, #ff8500, #ff9100, #ff9e00, #240046, #3c096c, #5a189a, #7b2cbf, #9d4edd",
}

var solids = map[string]string{
	"black":   "#000000",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
	"yellow":  "#ffff00",
}

// ColorBrewer Spectral, 11 classes
var spectral = []string{
	"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
	"#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
}

// Names lists every palette Get accepts, sorted.
func Names() []string {
	names := []string{"spectral"}
	for n := range csvPalettes {
		names = append(names, n)
	}
	for n := range solids {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Get returns the named palette.
func Get(name string) (Gradient, error) {
	if hex, ok := solids[name]; ok {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, err
		}
		return Solid(c), nil
	}
	if csv, ok := csvPalettes[name]; ok {
		return FromCSV(csv)
	}
	if name == "spectral" {
		colors, err := parseAll(spectral)
		if err != nil {
			return nil, err
		}
		return Scale(colors, evenDomain(len(colors)), BlendRGB), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}

// Solid always returns c.
func Solid(c colorful.Color) Gradient {
	return func(float64) colorful.Color { return c }
}

// FromCSV builds a Lab gradient from a comma separated list of hex
// colours. Stops sit at i/n eased with easeOutSine, which gives the early
// colours less room than the late ones.
func FromCSV(csv string) (Gradient, error) {
	fields := strings.Split(csv, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	colors, err := parseAll(fields)
	if err != nil {
		return nil, err
	}

	domain := make([]float64, len(colors))
	for i := range domain {
		domain[i] = EaseOutSine(float64(i) / float64(len(colors)))
	}
	return Scale(colors, domain, BlendLab), nil
}

// EaseOutSine is sin(x*pi/2).
func EaseOutSine(x float64) float64 {
	return math.Sin(x * math.Pi / 2)
}

// Scale interpolates colors placed at the increasing stops in domain.
func Scale(colors []colorful.Color, domain []float64, blend Blend) Gradient {
	if len(colors) == 1 {
		return Solid(colors[0])
	}
	last := len(colors) - 1
	return func(ratio float64) colorful.Color {
		if math.IsNaN(ratio) || ratio <= domain[0] {
			return colors[0]
		}
		if ratio >= domain[last] {
			return colors[last]
		}
		i, _ := slices.BinarySearch(domain, ratio)
		// domain[i-1] < ratio <= domain[i]
		lo, hi := domain[i-1], domain[i]
		return blend(colors[i-1], colors[i], (ratio-lo)/(hi-lo)).Clamped()
	}
}

func evenDomain(n int) []float64 {
	d := make([]float64, n)
	for i := range d {
		d[i] = float64(i) / float64(n-1)
	}
	return d
}

func parseAll(hexes []string) ([]colorful.Color, error) {
	if len(hexes) == 0 {
		return nil, errors.New("palette has no colours")
	}
	out := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// Cycle returns the palette ratio for a simulation step: the position of
// step within a cycle of the given length.
func Cycle(step uint64, cycle int) float64 {
	if cycle <= 0 {
		return 0
	}
	return float64(step%uint64(cycle)) / float64(cycle)
}

// Brighten lifts c towards white by intensity in [0, 1].
func Brighten(c colorful.Color, intensity float64) colorful.Color {
	if intensity <= 0 {
		return c
	}
	return c.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, math.Min(intensity, 1)*0.5).Clamped()
}
