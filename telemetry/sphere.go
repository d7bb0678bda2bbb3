package telemetry

import (
	"math"

	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/spherefield/systems"
)

// Measurement is a point-in-time reading of the population.
type Measurement struct {
	Speeds          []float64
	MaxTangentError float64 // |v.n| / |v|, worst particle
	MaxRadiusError  float64 // ||p| - R_eff|, worst particle
	FaceCounts      [6]int  // particles per S2 cube face
}

// Measure reads e into m, reusing m's speed buffer.
func Measure(e *systems.Engine, m *Measurement) {
	m.Speeds = m.Speeds[:0]
	m.MaxTangentError = 0
	m.MaxRadiusError = 0
	m.FaceCounts = [6]int{}
	radius := e.EffectiveRadius()

	for i, p := range e.Population().All() {
		speed := p.Speed()
		m.Speeds = append(m.Speeds, speed)

		if speed > 0 {
			normal := systems.SurfaceNormal(p.Position)
			if te := math.Abs(r3.Dot(p.Velocity, normal)) / speed; te > m.MaxTangentError {
				m.MaxTangentError = te
			}
		}

		c := e.Cartesian(i)
		if re := math.Abs(r3.Norm(c) - radius); re > m.MaxRadiusError {
			m.MaxRadiusError = re
		}

		m.FaceCounts[cubeFace(c)]++
	}
}

// cubeFace returns the S2 cube face c projects onto.
func cubeFace(c r3.Vec) int {
	return s2.CellFromPoint(s2.PointFromCoords(c.X, c.Y, c.Z)).ID().Face()
}

// FaceCV returns the coefficient of variation of the face counts. A
// uniform population gives values near zero.
func (m *Measurement) FaceCV() float64 {
	counts := make([]float64, len(m.FaceCounts))
	for i, c := range m.FaceCounts {
		counts[i] = float64(c)
	}
	mean, variance := stat.PopMeanVariance(counts, nil)
	if mean == 0 {
		return 0
	}
	return sqrt(variance) / mean
}

func sqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}
