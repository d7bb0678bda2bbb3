// Package telemetry provides windowed statistics, bookmarks, snapshots and
// performance tracking for the sphere simulation.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTime         float64 `csv:"sim_time"`
	Seed            string  `csv:"seed"`

	Particles   int     `csv:"particles"`
	Respawns    int     `csv:"respawns"`
	RespawnRate float64 `csv:"respawn_rate"` // per particle per tick

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Invariant residuals (sampled at window end)
	MaxTangentError float64 `csv:"max_tangent_error"`
	MaxRadiusError  float64 `csv:"max_radius_error"`

	// Modulation over the window
	EffectiveRadius float64 `csv:"effective_radius"`
	RadiusMin       float64 `csv:"radius_min"`
	RadiusMax       float64 `csv:"radius_max"`
	SignalMean      float64 `csv:"signal_mean"`
	SignalPeak      float64 `csv:"signal_peak"`

	// Coefficient of variation of particle counts over the six cube faces
	FaceCV float64 `csv:"face_cv"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats returns the mean, population standard deviation and
// percentiles of values. values is sorted in place.
func ComputeSpeedStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	std = sqrt(variance)

	slices.Sort(values)
	p10 = Percentile(values, 0.10)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTime),
		slog.String("seed", s.Seed),
		slog.Int("particles", s.Particles),
		slog.Int("respawns", s.Respawns),
		slog.Float64("respawn_rate", s.RespawnRate),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("max_tangent_error", s.MaxTangentError),
		slog.Float64("max_radius_error", s.MaxRadiusError),
		slog.Float64("effective_radius", s.EffectiveRadius),
		slog.Float64("radius_min", s.RadiusMin),
		slog.Float64("radius_max", s.RadiusMax),
		slog.Float64("signal_mean", s.SignalMean),
		slog.Float64("signal_peak", s.SignalPeak),
		slog.Float64("face_cv", s.FaceCV),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTime,
		"particles", s.Particles,
		"respawns", s.Respawns,
		"respawn_rate", s.RespawnRate,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"max_tangent_error", s.MaxTangentError,
		"max_radius_error", s.MaxRadiusError,
		"effective_radius", s.EffectiveRadius,
		"signal_mean", s.SignalMean,
		"signal_peak", s.SignalPeak,
		"face_cv", s.FaceCV,
	)
}
