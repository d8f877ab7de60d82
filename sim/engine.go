// Package sim orchestrates the particle simulation: the owned particle
// set, the interaction table, and the per-tick step pipeline.
//
// The engine API is single-goroutine: table edits and particle-set edits
// are whole-step-exclusive relative to Step, which the caller guarantees
// by driving everything from one loop. Step's internal force phase fans
// out to a worker pool, but only over the frozen snapshot.
package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/interaction"
	"github.com/pthm-cable/plife/particle"
	"github.com/pthm-cable/plife/systems"
	"github.com/pthm-cable/plife/telemetry"
)

// Options configures a new engine.
type Options struct {
	Seed           int64
	StatsWindowSec float64                  // 0 = use config value
	Output         *telemetry.OutputManager // nil = no file output
	LogStats       bool                     // log window stats via slog
}

// Engine holds the complete simulation state.
type Engine struct {
	cfg   *config.Config
	reg   *particle.Registry
	set   *particle.Set
	table *interaction.Table

	grid  *systems.Grid
	zones systems.Zones
	integ systems.IntegrateParams

	src rand.Source
	rng *rand.Rand

	enabled bool
	tick    int64

	parallel *parallelState

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool
}

// New creates an engine from the given config. The particle set starts
// empty and stepping starts disabled.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	reg, err := particle.NewRegistry(cfg.Particles.Types)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	src := rand.NewPCG(uint64(opts.Seed), 0xda3e39cb94b95bdb)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	e := &Engine{
		cfg:   cfg,
		reg:   reg,
		set:   particle.NewSet(),
		table: interaction.New(reg.Count()),
		grid:  systems.NewGrid(cfg.Derived.D3),
		zones: systems.Zones{
			D1:        cfg.Derived.D1,
			D2:        cfg.Derived.D2,
			D3:        cfg.Derived.D3,
			Repulsion: cfg.Derived.Repulsion32,
		},
		integ: systems.IntegrateParams{
			DT:      cfg.Derived.DT32,
			Damping: cfg.Derived.DampingFactor,
			HalfW:   cfg.Derived.HalfW,
			HalfH:   cfg.Derived.HalfH,
		},
		src:       src,
		rng:       rand.New(src),
		parallel:  newParallelState(),
		collector: telemetry.NewCollector(statsWindow, cfg.Physics.DT, reg.Count()),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    opts.Output,
		logStats:  opts.LogStats,
	}

	return e, nil
}

// Registry returns the fixed type registry.
func (e *Engine) Registry() *particle.Registry {
	return e.reg
}

// Tick returns the number of completed steps.
func (e *Engine) Tick() int64 {
	return e.tick
}

// Particles returns the particle set in iteration order. Hosts copy
// positions out of this for display after a step.
func (e *Engine) Particles() []particle.Particle {
	return e.set.Particles()
}

// ArenaBounds returns the full arena as a spawn region.
func (e *Engine) ArenaBounds() particle.Bounds {
	return particle.Bounds{
		MinX: -e.integ.HalfW, MaxX: e.integ.HalfW,
		MinY: -e.integ.HalfH, MaxY: e.integ.HalfH,
	}
}

// Spawn creates count particles inside bounds with types drawn from the
// weighted distribution. A nil weights slice uses the configured spawn
// weights.
func (e *Engine) Spawn(count int, weights []float64, bounds particle.Bounds) {
	if weights == nil {
		weights = e.cfg.Derived.Weights
	}
	e.set.Spawn(count, weights, bounds, e.rng, e.src)
}

// SpawnInitial spawns the configured initial population across the arena.
func (e *Engine) SpawnInitial() {
	e.Spawn(e.cfg.Particles.Initial, nil, e.ArenaBounds())
}

// DespawnAll removes every particle.
func (e *Engine) DespawnAll() {
	e.set.DespawnAll()
}

// SetEnabled gates whether Step executes.
func (e *Engine) SetEnabled(enabled bool) {
	e.enabled = enabled
}

// Enabled reports whether stepping is enabled.
func (e *Engine) Enabled() bool {
	return e.enabled
}

// GetInteraction returns the coefficient a source-type particle applies to
// a target-type particle.
func (e *Engine) GetInteraction(target, source particle.Type) float32 {
	return e.table.Get(target, source)
}

// SetInteraction updates one coefficient.
func (e *Engine) SetInteraction(target, source particle.Type, value float32) {
	e.table.Set(target, source, value)
}

// RandomizeTable fills the table with values drawn uniformly from
// [min, max). Exploratory use; not part of the deterministic trajectory
// guarantees unless the engine seed is fixed.
func (e *Engine) RandomizeTable(min, max float32) {
	e.table.Randomize(min, max, e.rng)
}

// LoadTable replaces the active table from a file. On any error the
// previous table stays active.
func (e *Engine) LoadTable(path string) error {
	table, err := interaction.Load(path, e.reg)
	if err != nil {
		return err
	}
	e.table = table
	return nil
}

// SaveTable writes the active table to a file. In-memory state is never
// touched, even on failure.
func (e *Engine) SaveTable(path string) error {
	return interaction.Save(path, e.table, e.reg)
}

// Close stops the internal worker pool.
func (e *Engine) Close() {
	e.parallel.stopWorkers()
}
