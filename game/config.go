package game

import (
	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/telemetry"
)

// Options configures a game instance.
type Options struct {
	Seed           string // Overrides simulation.seed when set
	LogStats       bool   // Log window and perf stats via slog
	StatsWindow    int    // Steps per stats window (0 = use config)
	SnapshotDir    string // Write a snapshot for each bookmark (empty = output dir/snapshots)
	OutputDir      string // CSV logs and config snapshot (empty = disabled)
	Headless       bool   // No raylib calls
	StepsPerUpdate int    // Simulation steps per Update call
	Audio          bool   // Play the signal source on the speaker

	// Config overrides the global configuration when set.
	Config *config.Config

	// StatsCallback, when set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// stepsPerUpdateMax caps the speed-up keys.
const stepsPerUpdateMax = 10

func (o Options) stepsPerUpdate() int {
	if o.StepsPerUpdate < 1 {
		return 1
	}
	return o.StepsPerUpdate
}
