package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spherefield/components"
	"github.com/pthm-cable/spherefield/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the population state at one tick. The random stream is
// not captured, so a restored engine diverges from the original run at the
// next draw.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    string `json:"seed"`
	Tick    int32  `json:"tick"`

	Radius          float64 `json:"radius"`
	EffectiveRadius float64 `json:"effective_radius"`

	Particles []ParticleState `json:"particles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one particle.
type ParticleState struct {
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
	VelX  float64 `json:"vel_x"`
	VelY  float64 `json:"vel_y"`
	VelZ  float64 `json:"vel_z"`
}

// NewSnapshot captures e at tick.
func NewSnapshot(e *systems.Engine, tick int32, b *Bookmark) *Snapshot {
	s := &Snapshot{
		Version:         SnapshotVersion,
		Seed:            string(e.Seed()),
		Tick:            tick,
		Radius:          e.Config().Radius,
		EffectiveRadius: e.EffectiveRadius(),
		Particles:       make([]ParticleState, 0, e.Population().Len()),
		Bookmark:        b,
	}
	for _, p := range e.Population().All() {
		s.Particles = append(s.Particles, ParticleState{
			Theta: p.Position.Theta,
			Phi:   p.Position.Phi,
			VelX:  p.Velocity.X,
			VelY:  p.Velocity.Y,
			VelZ:  p.Velocity.Z,
		})
	}
	return s
}

// Population converts the saved particles back to components.
func (s *Snapshot) Population() []components.Particle {
	out := make([]components.Particle, len(s.Particles))
	for i, p := range s.Particles {
		out[i] = components.Particle{
			Position: components.Spherical{Theta: p.Theta, Phi: p.Phi},
			Velocity: r3.Vec{X: p.VelX, Y: p.VelY, Z: p.VelZ},
		}
	}
	return out
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
