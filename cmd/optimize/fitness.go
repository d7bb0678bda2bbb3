package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/spherefield/config"
	"github.com/pthm-cable/spherefield/game"
	"github.com/pthm-cable/spherefield/telemetry"
)

// Targets describes the motion the optimizer steers towards.
type Targets struct {
	SpeedMean   float64 // Mean particle speed per window
	RespawnRate float64 // Respawns per particle per tick
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []string
	baseConfig  *config.Config
	targets     Targets
	statsWindow int

	mu          sync.Mutex
	bestFitness float64
	bestStats   []telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []string, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	window := baseCfg.Telemetry.StatsWindow
	if window <= 0 {
		window = 300
	}
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targets:     targets,
		statsWindow: window,
		bestFitness: math.Inf(1),
	}
}

// BestStats returns the window stats of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestStats() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

type seedResult struct {
	quality float64
	stats   []telemetry.WindowStats
	err     error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean quality over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s string) {
			defer wg.Done()
			stats, err := fe.runSimulation(cfg, s)
			results[idx] = seedResult{
				quality: fe.computeQuality(stats),
				stats:   stats,
				err:     err,
			}
		}(i, seed)
	}
	wg.Wait()

	var total float64
	bestSeed := -1
	for i, r := range results {
		if r.err != nil {
			// Invalid configurations score zero quality
			continue
		}
		total += r.quality
		if bestSeed < 0 || r.quality > results[bestSeed].quality {
			bestSeed = i
		}
	}
	quality := total / float64(len(fe.seeds))
	fitness := -quality

	fe.mu.Lock()
	if fitness < fe.bestFitness && bestSeed >= 0 {
		fe.bestFitness = fitness
		fe.bestStats = results[bestSeed].stats
	}
	fe.lastQuality = quality
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless simulation run and returns
// every window flushed during it.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed string) ([]telemetry.WindowStats, error) {
	// Every run gets its own copy; the game keeps a pointer to it.
	runCfg := *cfg
	runCfg.Simulation.Workers = 1

	var stats []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindow:    fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         &runCfg,
		StatsCallback: func(w telemetry.WindowStats) {
			stats = append(stats, w)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed %q: %w", seed, err)
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		if err := g.UpdateHeadless(); err != nil {
			return stats, fmt.Errorf("seed %q: %w", seed, err)
		}
	}
	return stats, nil
}

// copyConfig creates a copy of the base config. Config holds no references,
// so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Quality component weights.
const (
	qualityWeightSpeed     = 0.35
	qualityWeightRespawn   = 0.25
	qualityWeightCoverage  = 0.25
	qualityWeightStability = 0.15

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality computes motion quality in [0, 1] from window stats.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var speedSum, respawnSum, coverageSum float64
	speeds := make([]float64, 0, len(valid))
	for _, w := range valid {
		speeds = append(speeds, w.SpeedMean)

		// 1. Speed close to target (relative error)
		if fe.targets.SpeedMean > 0 {
			rel := (w.SpeedMean - fe.targets.SpeedMean) / fe.targets.SpeedMean
			speedSum += math.Exp(-rel * rel)
		}

		// 2. Respawn rate close to target (log error, so zero respawns scores 0)
		if w.RespawnRate > 0 && fe.targets.RespawnRate > 0 {
			logErr := math.Log(w.RespawnRate / fe.targets.RespawnRate)
			respawnSum += math.Exp(-logErr * logErr / 2.0)
		}

		// 3. Even coverage of the sphere
		coverageSum += math.Exp(-w.FaceCV * w.FaceCV * 4.0)
	}
	n := float64(len(valid))

	// 4. Speed stability across windows
	stability := 0.0
	if len(speeds) >= 2 {
		c := cv(speeds)
		stability = math.Exp(-c * c * 4.0)
	}

	quality := qualityWeightSpeed*speedSum/n +
		qualityWeightRespawn*respawnSum/n +
		qualityWeightCoverage*coverageSum/n +
		qualityWeightStability*stability

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
