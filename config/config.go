// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/plife/particle"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Arena     ArenaConfig     `yaml:"arena"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Zones     ZonesConfig     `yaml:"zones"`
	Particles ParticlesConfig `yaml:"particles"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ArenaConfig holds simulation arena dimensions.
// The arena is centered on the origin; particles live in
// [-width/2, width/2] x [-height/2, height/2].
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	DT        float64 `yaml:"dt"`        // Seconds per simulation tick
	HalfLife  float64 `yaml:"half_life"` // Velocity damping half-life in seconds
	Repulsion float64 `yaml:"repulsion"` // Hard-repulsion strength (positive)
}

// ZonesConfig holds the force zone radii.
//
// Either set d1/d2/d3 explicitly (d1 <= d2 <= d3), or set radius and split:
// d1 = radius*split, d2 = radius*(1+split)/2, d3 = radius. Explicit radii
// take precedence when all three are non-zero.
type ZonesConfig struct {
	Radius float64 `yaml:"radius"`
	Split  float64 `yaml:"split"`
	D1     float64 `yaml:"d1"`
	D2     float64 `yaml:"d2"`
	D3     float64 `yaml:"d3"`
}

// ParticlesConfig holds particle population parameters.
type ParticlesConfig struct {
	Initial int       `yaml:"initial"` // Number of particles to spawn at startup
	Types   []string  `yaml:"types"`   // Type names; order fixes the type ids (empty = full default palette)
	Weights []float64 `yaml:"weights"` // Spawn weight per type (empty = uniform)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Window size in sim seconds
	PerfWindow  int     `yaml:"perf_window"`  // Ticks in the perf rolling window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32   // Physics.DT as float32
	HalfW         float32   // Arena half-width
	HalfH         float32   // Arena half-height
	D1, D2, D3    float32   // Resolved zone radii
	DampingFactor float32   // 0.5^(dt/half_life), applied once per tick
	Repulsion32   float32   // Physics.Repulsion as float32
	Weights       []float64 // Spawn weights, resolved to len(Types)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// An empty type list resolves to the full default palette
	if len(cfg.Particles.Types) == 0 {
		cfg.Particles.Types = particle.Palette()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate checks the loaded values before any derived computation.
func (c *Config) validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("config: arena dimensions must be positive, got %gx%g",
			c.Arena.Width, c.Arena.Height)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Physics.DT)
	}
	if c.Physics.HalfLife <= 0 {
		return fmt.Errorf("config: half_life must be positive, got %g", c.Physics.HalfLife)
	}
	if c.Physics.Repulsion < 0 {
		return fmt.Errorf("config: repulsion must be non-negative, got %g", c.Physics.Repulsion)
	}

	d1, d2, d3 := c.resolveZones()
	if d1 <= 0 || !(d1 <= d2 && d2 <= d3) {
		return fmt.Errorf("config: zone radii must satisfy 0 < d1 <= d2 <= d3, got %g/%g/%g", d1, d2, d3)
	}

	k := len(c.Particles.Types)
	if k < 3 || k > 17 {
		return fmt.Errorf("config: need between 3 and 17 particle types, got %d", k)
	}
	seen := make(map[string]bool, k)
	for _, name := range c.Particles.Types {
		if name == "" {
			return fmt.Errorf("config: empty particle type name")
		}
		if seen[name] {
			return fmt.Errorf("config: duplicate particle type %q", name)
		}
		seen[name] = true
	}
	if n := len(c.Particles.Weights); n != 0 && n != k {
		return fmt.Errorf("config: got %d spawn weights for %d types", n, k)
	}
	var weightSum float64
	for i, w := range c.Particles.Weights {
		if w < 0 {
			return fmt.Errorf("config: spawn weight %d is negative (%g)", i, w)
		}
		weightSum += w
	}
	if len(c.Particles.Weights) != 0 && weightSum <= 0 {
		return fmt.Errorf("config: spawn weights must not all be zero")
	}

	return nil
}

// resolveZones returns the effective zone radii. Explicit d1/d2/d3 win over
// the radius+split form.
func (c *Config) resolveZones() (d1, d2, d3 float64) {
	z := c.Zones
	if z.D1 > 0 && z.D2 > 0 && z.D3 > 0 {
		return z.D1, z.D2, z.D3
	}
	d1 = z.Radius * z.Split
	d2 = z.Radius * (1 + z.Split) / 2
	d3 = z.Radius
	return d1, d2, d3
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.HalfW = float32(c.Arena.Width / 2)
	c.Derived.HalfH = float32(c.Arena.Height / 2)

	d1, d2, d3 := c.resolveZones()
	c.Derived.D1 = float32(d1)
	c.Derived.D2 = float32(d2)
	c.Derived.D3 = float32(d3)

	c.Derived.DampingFactor = float32(math.Pow(0.5, c.Physics.DT/c.Physics.HalfLife))
	c.Derived.Repulsion32 = float32(c.Physics.Repulsion)

	// Spawn weights default to uniform
	if len(c.Particles.Weights) == 0 {
		c.Derived.Weights = make([]float64, len(c.Particles.Types))
		for i := range c.Derived.Weights {
			c.Derived.Weights[i] = 1
		}
	} else {
		c.Derived.Weights = append([]float64(nil), c.Particles.Weights...)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
