package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Phase is one part of a simulation tick.
type Phase int

const (
	PhaseSignal Phase = iota
	PhaseStep
	PhaseTelemetry
	numPhases
)

// Phases lists the tick phases in execution order.
var Phases = [numPhases]Phase{PhaseSignal, PhaseStep, PhaseTelemetry}

func (p Phase) String() string {
	switch p {
	case PhaseSignal:
		return "signal"
	case PhaseStep:
		return "step"
	case PhaseTelemetry:
		return "telemetry"
	}
	return "unknown"
}

type tickSample struct {
	total     time.Duration
	phases    [numPhases]time.Duration
	particles int
}

// PerfCollector keeps a ring of recent tick timings together with the
// population size each step moved.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector averages over the last window ticks (60 if window < 1).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickSample, window)}
}

// StartTick begins timing a tick. An unfinished previous tick is discarded.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickSample{}
	p.inPhase = false
}

// StartPhase closes the running phase and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart, p.inPhase = phase, now, true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick records the tick. particles is the population the step moved.
func (p *PerfCollector) EndTick(particles int) {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)
	p.cur.particles = particles

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the collector's window.
type PerfStats struct {
	AvgTick time.Duration
	MaxTick time.Duration

	// Mean duration and percentage of the tick per phase, indexed by Phase.
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64

	// Step phase throughput: particle updates per second, and the mean
	// step cost per thousand particles.
	ParticleRate float64
	StepPer1K    time.Duration

	FPS float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phases [numPhases]time.Duration
	var particles int
	for _, t := range p.ring[:p.count] {
		total += t.total
		s.MaxTick = max(s.MaxTick, t.total)
		for i, d := range t.phases {
			phases[i] += d
		}
		particles += t.particles
	}

	n := time.Duration(p.count)
	s.AvgTick = total / n
	for i := range phases {
		s.PhaseAvg[i] = phases[i] / n
		if total > 0 {
			s.PhasePct[i] = float64(phases[i]) / float64(total) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	if step := phases[PhaseStep]; step > 0 && particles > 0 {
		s.ParticleRate = float64(particles) / step.Seconds()
		s.StepPer1K = step * 1000 / time.Duration(particles)
	}
	return s
}

func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("particles_per_sec", s.ParticleRate),
		slog.Int64("step_ns_per_1k", s.StepPer1K.Nanoseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		attrs = append(attrs, slog.Float64(phase.String()+"_pct", s.PhasePct[phase]))
	}
	return attrs
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the window's performance at info level.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	ParticleRate float64 `csv:"particles_per_sec"`
	StepPer1KNS  int64   `csv:"step_ns_per_1k"`
	FPS          float64 `csv:"fps"`
	SignalPct    float64 `csv:"signal_pct"`
	StepPct      float64 `csv:"step_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		ParticleRate: s.ParticleRate,
		StepPer1KNS:  s.StepPer1K.Nanoseconds(),
		FPS:          s.FPS,
		SignalPct:    s.PhasePct[PhaseSignal],
		StepPct:      s.PhasePct[PhaseStep],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
