// Package systems provides the spatial index, force model and integrator.
package systems

import (
	"math"

	"github.com/pthm-cable/plife/particle"
)

// Entry is one snapshot record held by the grid: everything the force
// phase needs to know about a neighbor.
type Entry struct {
	ID   uint32
	Type particle.Type
	X, Y float32
}

type cellKey struct {
	X, Y int32
}

// Grid is a uniform bucket grid over particle snapshot positions. It is
// rebuilt every tick and never retained across ticks. With cell size d3,
// the 3x3 block around a cell covers every particle within d3 of any point
// in that cell.
type Grid struct {
	cellSize float32
	cells    map[cellKey][]Entry
}

// NewGrid creates a grid with the given cell size (the force cutoff d3).
func NewGrid(cellSize float32) *Grid {
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]Entry, 256),
	}
}

// cellOf buckets a position by floor division, not truncation, so negative
// coordinates bucket symmetrically around the origin.
func (g *Grid) cellOf(x, y float32) cellKey {
	return cellKey{
		X: int32(math.Floor(float64(x / g.cellSize))),
		Y: int32(math.Floor(float64(y / g.cellSize))),
	}
}

// Rebuild clears the grid and inserts every entry. Bucket slices are kept
// and truncated so steady-state rebuilds do not allocate.
func (g *Grid) Rebuild(entries []Entry) {
	for key := range g.cells {
		g.cells[key] = g.cells[key][:0]
	}
	for _, e := range entries {
		key := g.cellOf(e.X, e.Y)
		g.cells[key] = append(g.cells[key], e)
	}
}

// QueryInto appends to dst every entry in the 3x3 cell block around the
// given position, excluding the entry with id self, and returns the
// updated slice. Reuse dst across calls to avoid allocations.
//
// The result is a superset of all entries within cellSize of the position;
// the force model's d3 cutoff does the exact filtering. Cells are visited
// in a fixed order and buckets preserve insertion order, so the result
// order is independent of map iteration order.
func (g *Grid) QueryInto(dst []Entry, x, y float32, self uint32) []Entry {
	center := g.cellOf(x, y)
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			bucket := g.cells[cellKey{X: center.X + dx, Y: center.Y + dy}]
			for _, e := range bucket {
				if e.ID == self {
					continue
				}
				dst = append(dst, e)
			}
		}
	}
	return dst
}
