package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spherefield/components"
)

func TestToCartesian(t *testing.T) {
	tests := []struct {
		name   string
		s      components.Spherical
		radius float64
		want   r3.Vec
	}{
		{"north pole", components.Spherical{Theta: 0, Phi: 0}, 2, r3.Vec{Z: 2}},
		{"south pole", components.Spherical{Theta: 1, Phi: math.Pi}, 2, r3.Vec{Z: -2}},
		{"equator x", components.Spherical{Theta: 0, Phi: math.Pi / 2}, 3, r3.Vec{X: 3}},
		{"equator y", components.Spherical{Theta: math.Pi / 2, Phi: math.Pi / 2}, 3, r3.Vec{Y: 3}},
		{"wrapped theta", components.Spherical{Theta: 2*math.Pi + math.Pi/2, Phi: math.Pi / 2}, 1, r3.Vec{Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCartesian(tt.s, tt.radius)
			if r3.Norm(r3.Sub(got, tt.want)) > 1e-12 {
				t.Errorf("ToCartesian(%+v, %v) = %v, want %v", tt.s, tt.radius, got, tt.want)
			}
		})
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	for i := 0; i < 200; i++ {
		s := components.Spherical{
			Theta: -math.Pi + float64(i)*0.0311,
			Phi:   0.01 + float64(i)*0.0155,
		}
		v := ToCartesian(s, 7.5)
		if math.Abs(r3.Norm(v)-7.5) > 1e-12 {
			t.Fatalf("|ToCartesian| = %v, want 7.5", r3.Norm(v))
		}
		back := ToSpherical(v)
		if math.Abs(back.Phi-s.Phi) > 1e-9 {
			t.Fatalf("phi %v -> %v", s.Phi, back.Phi)
		}
		if d := math.Abs(math.Remainder(back.Theta-s.Theta, 2*math.Pi)); d > 1e-9 {
			t.Fatalf("theta %v -> %v", s.Theta, back.Theta)
		}
	}
}

func TestToSphericalRanges(t *testing.T) {
	points := []r3.Vec{{X: 1}, {X: -1}, {Y: -3}, {Z: 5}, {Z: -5}, {X: 1, Y: -1, Z: 1}}
	for _, p := range points {
		s := ToSpherical(p)
		if s.Phi < 0 || s.Phi > math.Pi {
			t.Errorf("ToSpherical(%v).Phi = %v out of [0, pi]", p, s.Phi)
		}
		if s.Theta < -math.Pi || s.Theta > math.Pi {
			t.Errorf("ToSpherical(%v).Theta = %v out of [-pi, pi]", p, s.Theta)
		}
	}
}

func TestSurfaceNormalIsUnit(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := components.Spherical{Theta: float64(i) * 0.7, Phi: float64(i) * 0.06}
		if n := r3.Norm(SurfaceNormal(s)); math.Abs(n-1) > 1e-12 {
			t.Fatalf("|normal| = %v", n)
		}
	}
}
