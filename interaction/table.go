// Package interaction holds the type-by-type force coefficient table and
// its tabular file codec. The table is the only persisted simulation state.
package interaction

import (
	"math/rand/v2"

	"github.com/pthm-cable/plife/particle"
)

// Table is a K x K matrix of signed force coefficients, indexed as
// [target][source]: the force a source-type particle exerts on a
// target-type particle. Positive attracts, negative repels. Callers
// guarantee type ids are within [0, K).
type Table struct {
	k      int
	values []float32 // row-major, values[target*k+source]
}

// New creates an all-zero K x K table.
func New(k int) *Table {
	return &Table{
		k:      k,
		values: make([]float32, k*k),
	}
}

// K returns the table dimension.
func (t *Table) K() int {
	return t.k
}

// Get returns the coefficient a source-type particle applies to a
// target-type particle.
func (t *Table) Get(target, source particle.Type) float32 {
	return t.values[int(target)*t.k+int(source)]
}

// Set updates one coefficient.
func (t *Table) Set(target, source particle.Type, value float32) {
	t.values[int(target)*t.k+int(source)] = value
}

// Randomize fills every cell with a value drawn uniformly from [min, max).
func (t *Table) Randomize(min, max float32, rng *rand.Rand) {
	for i := range t.values {
		t.values[i] = min + rng.Float32()*(max-min)
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := New(t.k)
	copy(c.values, t.values)
	return c
}
