package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseSnapshot  = "snapshot"
	PhaseGrid      = "grid"
	PhaseForces    = "forces"
	PhaseApply     = "apply"
	PhaseTelemetry = "telemetry"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks step timings over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated timings over the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var totalTick, minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	stats := PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
		PhaseAvg:        make(map[string]time.Duration, len(phaseSum)),
		PhasePct:        make(map[string]float64, len(phaseSum)),
	}

	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		stats.PhaseAvg[phase] = avg
		if avgTick > 0 {
			stats.PhasePct[phase] = float64(avg) / float64(avgTick) * 100
		}
	}

	if avgTick > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(avgTick)
	}

	return stats
}

// PerfStatsCSV is the flat CSV record shape for perf stats.
type PerfStatsCSV struct {
	WindowEndTick  int64   `csv:"window_end"`
	AvgTickUs      int64   `csv:"avg_tick_us"`
	MinTickUs      int64   `csv:"min_tick_us"`
	MaxTickUs      int64   `csv:"max_tick_us"`
	TicksPerSecond float64 `csv:"ticks_per_sec"`
	SnapshotPct    float64 `csv:"snapshot_pct"`
	GridPct        float64 `csv:"grid_pct"`
	ForcesPct      float64 `csv:"forces_pct"`
	ApplyPct       float64 `csv:"apply_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for gocsv output.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEndTick:  windowEnd,
		AvgTickUs:      s.AvgTickDuration.Microseconds(),
		MinTickUs:      s.MinTickDuration.Microseconds(),
		MaxTickUs:      s.MaxTickDuration.Microseconds(),
		TicksPerSecond: s.TicksPerSecond,
		SnapshotPct:    s.PhasePct[PhaseSnapshot],
		GridPct:        s.PhasePct[PhaseGrid],
		ForcesPct:      s.PhasePct[PhaseForces],
		ApplyPct:       s.PhasePct[PhaseApply],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}

// LogStats logs the perf stats using slog.
func (s PerfStats) LogStats(windowEnd int64) {
	slog.Info("perf",
		"window_end", windowEnd,
		"avg_tick", s.AvgTickDuration.Round(time.Microsecond),
		"min_tick", s.MinTickDuration.Round(time.Microsecond),
		"max_tick", s.MaxTickDuration.Round(time.Microsecond),
		"ticks_per_sec", s.TicksPerSecond,
	)
}
