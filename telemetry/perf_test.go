package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorAggregates(t *testing.T) {
	p := NewPerfCollector(4)

	for i := 0; i < 3; i++ {
		p.StartTick()
		p.StartPhase(PhaseSnapshot)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseForces)
		time.Sleep(2 * time.Millisecond)
		p.EndTick()
	}

	stats := p.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Fatalf("AvgTickDuration = %v", stats.AvgTickDuration)
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.PhaseAvg[PhaseSnapshot] <= 0 || stats.PhaseAvg[PhaseForces] <= 0 {
		t.Errorf("phase averages missing: %v", stats.PhaseAvg)
	}
	if stats.PhaseAvg[PhaseForces] < stats.PhaseAvg[PhaseSnapshot] {
		t.Errorf("forces phase (%v) should dominate snapshot phase (%v)",
			stats.PhaseAvg[PhaseForces], stats.PhaseAvg[PhaseSnapshot])
	}
	if stats.TicksPerSecond <= 0 {
		t.Errorf("TicksPerSecond = %g", stats.TicksPerSecond)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(8)
	stats := p.Stats()
	if stats.AvgTickDuration != 0 || len(stats.PhaseAvg) != 0 {
		t.Errorf("empty collector should produce zero stats, got %+v", stats)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		MinTickDuration: time.Millisecond,
		MaxTickDuration: 2 * time.Millisecond,
		TicksPerSecond:  666.0,
		PhasePct: map[string]float64{
			PhaseSnapshot: 10,
			PhaseGrid:     15,
			PhaseForces:   60,
			PhaseApply:    10,
		},
	}

	rec := stats.ToCSV(120)
	if rec.WindowEndTick != 120 {
		t.Errorf("WindowEndTick = %d", rec.WindowEndTick)
	}
	if rec.AvgTickUs != 1500 || rec.MinTickUs != 1000 || rec.MaxTickUs != 2000 {
		t.Errorf("durations = %d/%d/%d us", rec.AvgTickUs, rec.MinTickUs, rec.MaxTickUs)
	}
	if rec.ForcesPct != 60 || rec.TelemetryPct != 0 {
		t.Errorf("phase percentages = %+v", rec)
	}
}
