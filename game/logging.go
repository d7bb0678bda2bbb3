package game

import (
	"log/slog"
	"runtime"

	"github.com/pthm-cable/spherefield/telemetry"
)

// logRunStart records the parameters that identify a run.
func (g *Game) logRunStart() {
	sim := g.engine.Config()
	slog.Info("simulation started",
		"seed", string(g.engine.Seed()),
		"particles", sim.Particles,
		"radius", sim.Radius,
		"coupling", sim.Coupling,
		"friction", sim.Friction,
		"noise", sim.Noise.Backend,
		"modulation", g.cfg.Modulation.Mode,
		"signal", g.cfg.Signal.Source,
		"palette", g.paletteName,
		"headless", g.headless,
		"steps_per_update", g.stepsPerUpdate,
		"gomaxprocs", runtime.GOMAXPROCS(0),
	)
}

// LastStats returns the most recent flushed window, if any.
func (g *Game) LastStats() (telemetry.WindowStats, bool) {
	return g.lastStats, g.haveStats
}
