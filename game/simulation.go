package game

import (
	"fmt"

	"github.com/pthm-cable/spherefield/signal"
	"github.com/pthm-cable/spherefield/systems"
	"github.com/pthm-cable/spherefield/telemetry"
)

// Update runs one frame of the windowed game: input, then the configured
// number of simulation steps unless paused. A signal error stops the
// frame before the engine moves.
func (g *Game) Update() error {
	g.perfCollector.RecordFrame()
	g.handleInput()
	g.camera.Advance(g.cfg.Derived.FrameSeconds)

	if g.paused {
		return nil
	}
	return g.steps()
}

// UpdateHeadless runs the configured number of simulation steps without
// touching raylib.
func (g *Game) UpdateHeadless() error {
	return g.steps()
}

func (g *Game) steps() error {
	for range g.stepsPerUpdate {
		if err := g.simulationStep(); err != nil {
			return err
		}
	}
	return nil
}

// simulationStep advances the signal by one frame of audio, steps the
// engine with its level and records telemetry.
func (g *Game) simulationStep() error {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSignal)
	level, err := g.readLevel()
	if err != nil {
		return fmt.Errorf("tick %d: %w", g.tick, err)
	}
	g.level = level

	g.perfCollector.StartPhase(telemetry.PhaseStep)
	g.engine.Update(systems.UpdateInput{
		DeltaTime: g.cfg.Simulation.DeltaTime,
		Step:      g.step,
		Signal:    level,
	})
	g.step++
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(g.engine, level)
	g.flushTelemetry()

	g.perfCollector.EndTick(g.engine.Population().Len())
	return nil
}

// readLevel advances the monitor and validates its level at the engine
// boundary.
func (g *Game) readLevel() (float64, error) {
	level, err := g.monitor.Advance(g.cfg.Derived.FrameSeconds)
	if err != nil {
		return 0, err
	}
	return signal.Scalar(level)
}
