// Package telemetry aggregates per-window simulation statistics and
// performance timings, and writes them as CSV.
package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/plife/particle"
)

// WindowStats holds aggregated statistics for a stats window, sampled from
// the particle set at the window's end.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Particles int `csv:"particles"`

	// Velocity distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedMax  float64 `csv:"speed_max"`

	// Sum of v^2/2 over all particles (unit mass)
	KineticEnergy float64 `csv:"kinetic_energy"`

	// Count per particle type, indexed by type id
	TypeCounts []int `csv:"-"`
}

// ComputeWindowStats samples the particle set.
func ComputeWindowStats(startTick, endTick int64, simTime float64, particles []particle.Particle, numTypes int) WindowStats {
	s := WindowStats{
		WindowStartTick: startTick,
		WindowEndTick:   endTick,
		SimTimeSec:      simTime,
		Particles:       len(particles),
		TypeCounts:      make([]int, numTypes),
	}

	if len(particles) == 0 {
		return s
	}

	speeds := make([]float64, len(particles))
	for i, p := range particles {
		v2 := float64(p.Vel.X)*float64(p.Vel.X) + float64(p.Vel.Y)*float64(p.Vel.Y)
		speeds[i] = math.Sqrt(v2)
		s.KineticEnergy += v2 / 2
		s.TypeCounts[p.Type]++
	}

	s.SpeedMean, s.SpeedStd = stat.MeanStdDev(speeds, nil)
	if len(speeds) == 1 {
		s.SpeedStd = 0 // sample stddev is undefined for n=1
	}
	s.SpeedMax = floats.Max(speeds)

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Any("type_counts", s.TypeCounts),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_max", s.SpeedMax,
		"kinetic_energy", s.KineticEnergy,
		"type_counts", s.TypeCounts,
	)
}
