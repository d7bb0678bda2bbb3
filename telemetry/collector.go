package telemetry

import (
	"math"

	"github.com/pthm-cable/spherefield/systems"
)

// Collector accumulates per-tick readings within a window and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64
	seed                string

	windowStartTick int32
	ticks           int

	respawnsAtStart uint64
	respawns        uint64
	signalSum       float64
	signalPeak      float64
	radiusMin       float64
	radiusMax       float64

	measurement Measurement
}

// NewCollector creates a collector flushing every windowTicks ticks of dt
// simulation seconds.
func NewCollector(windowTicks int32, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	c := &Collector{
		windowDurationTicks: windowTicks,
		dt:                  dt,
	}
	c.resetWindow(0, 0)
	return c
}

func (c *Collector) resetWindow(tick int32, respawns uint64) {
	c.windowStartTick = tick
	c.ticks = 0
	c.respawnsAtStart = respawns
	c.respawns = respawns
	c.signalSum = 0
	c.signalPeak = 0
	c.radiusMin = math.Inf(1)
	c.radiusMax = 0
}

// Reset starts a fresh window, for example after a reseed.
func (c *Collector) Reset(tick int32, seed string) {
	c.seed = seed
	c.resetWindow(tick, 0)
}

// RecordStep records the state after one engine update.
func (c *Collector) RecordStep(e *systems.Engine, signal float64) {
	c.ticks++
	c.respawns = e.Respawns()
	c.signalSum += signal
	c.signalPeak = math.Max(c.signalPeak, signal)
	r := e.EffectiveRadius()
	c.radiusMin = math.Min(c.radiusMin, r)
	c.radiusMax = math.Max(c.radiusMax, r)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush measures e, produces the window's stats and starts the next window.
func (c *Collector) Flush(currentTick int32, e *systems.Engine) WindowStats {
	Measure(e, &c.measurement)
	m := &c.measurement
	n := len(m.Speeds)
	faceCV := m.FaceCV()
	mean, std, p10, p50, p90 := ComputeSpeedStats(m.Speeds)

	respawns := int(c.respawns - c.respawnsAtStart)
	var rate, signalMean float64
	if c.ticks > 0 {
		signalMean = c.signalSum / float64(c.ticks)
		if n > 0 {
			rate = float64(respawns) / float64(n*c.ticks)
		}
	}
	radiusMin := c.radiusMin
	if c.ticks == 0 {
		radiusMin = e.EffectiveRadius()
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTime:         float64(currentTick) * c.dt,
		Seed:            c.seed,

		Particles:   n,
		Respawns:    respawns,
		RespawnRate: rate,

		SpeedMean: mean,
		SpeedStd:  std,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		MaxTangentError: m.MaxTangentError,
		MaxRadiusError:  m.MaxRadiusError,

		EffectiveRadius: e.EffectiveRadius(),
		RadiusMin:       radiusMin,
		RadiusMax:       math.Max(c.radiusMax, radiusMin),
		SignalMean:      signalMean,
		SignalPeak:      c.signalPeak,

		FaceCV: faceCV,
	}

	c.resetWindow(currentTick, c.respawns)
	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
