package particle

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Position is a particle's world position. The arena is origin-centered.
type Position struct {
	X, Y float32
}

// Velocity is a particle's velocity in world units per second.
type Velocity struct {
	X, Y float32
}

// Particle is one simulated particle. Particles are owned exclusively by a
// Set; positions and velocities are mutated only by the integrator.
type Particle struct {
	ID   uint32
	Type Type
	Pos  Position
	Vel  Velocity
}

// Bounds is an axis-aligned spawn region.
type Bounds struct {
	MinX, MaxX float32
	MinY, MaxY float32
}

// Set is the owned particle collection. Iteration order is insertion order
// and stays stable across ticks, which keeps stepping deterministic.
type Set struct {
	particles []Particle
	byID      map[uint32]int
	nextID    uint32
}

// NewSet creates an empty particle set.
func NewSet() *Set {
	return &Set{
		particles: make([]Particle, 0, 1024),
		byID:      make(map[uint32]int, 1024),
	}
}

// Spawn creates count particles with uniform random positions inside bounds
// and types drawn from the weighted distribution. weights must have one
// entry per registered type.
func (s *Set) Spawn(count int, weights []float64, bounds Bounds, rng *rand.Rand, src rand.Source) {
	dist := distuv.NewCategorical(weights, src)

	for i := 0; i < count; i++ {
		x := bounds.MinX + rng.Float32()*(bounds.MaxX-bounds.MinX)
		y := bounds.MinY + rng.Float32()*(bounds.MaxY-bounds.MinY)

		p := Particle{
			ID:   s.nextID,
			Type: Type(dist.Rand()),
			Pos:  Position{X: x, Y: y},
		}
		s.byID[p.ID] = len(s.particles)
		s.particles = append(s.particles, p)
		s.nextID++
	}
}

// DespawnAll removes every particle. IDs are not reused.
func (s *Set) DespawnAll() {
	s.particles = s.particles[:0]
	clear(s.byID)
}

// Len returns the number of particles.
func (s *Set) Len() int {
	return len(s.particles)
}

// Get returns the particle with the given id.
func (s *Set) Get(id uint32) (*Particle, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.particles[i], true
}

// Particles returns the underlying slice in iteration order. Callers must
// not grow or shrink it; the simulation mutates positions and velocities
// through it between snapshots.
func (s *Set) Particles() []Particle {
	return s.particles
}
