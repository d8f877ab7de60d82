package telemetry

import (
	"github.com/pthm-cable/plife/particle"
)

// Collector decides when a stats window has elapsed and samples the
// particle set at the window boundary.
type Collector struct {
	windowTicks int64
	dt          float64
	numTypes    int
	lastFlush   int64
}

// NewCollector creates a collector flushing every windowSec of simulated
// time (at least one tick per window).
func NewCollector(windowSec, dt float64, numTypes int) *Collector {
	ticks := int64(windowSec / dt)
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowTicks: ticks,
		dt:          dt,
		numTypes:    numTypes,
	}
}

// WindowTicks returns the window length in ticks.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}

// Tick reports whether a window ended at the given tick and, if so,
// returns stats sampled from the particle set.
func (c *Collector) Tick(tick int64, particles []particle.Particle) (WindowStats, bool) {
	if tick-c.lastFlush < c.windowTicks {
		return WindowStats{}, false
	}

	stats := ComputeWindowStats(c.lastFlush, tick, float64(tick)*c.dt, particles, c.numTypes)
	c.lastFlush = tick
	return stats, true
}
