package systems

import (
	"github.com/pthm-cable/plife/interaction"
	"github.com/pthm-cable/plife/particle"
)

// Zones holds the force zone parameters. Radii satisfy d1 <= d2 <= d3;
// Repulsion is the positive hard-repulsion strength.
type Zones struct {
	D1, D2, D3 float32
	Repulsion  float32
}

// ForceMagnitude returns the signed force a source-type neighbor at the
// given distance exerts on a target-type particle, along the unit vector
// from the particle toward the neighbor. Positive pulls together, negative
// pushes apart.
//
//	[0, d1)   hard repulsion: -repulsion * (d1-dist)/d1, table-independent,
//	          always negative, strongest at contact, continuous to 0 at d1
//	[d1, d2)  ramp-in:  table * (dist-d1)/(d2-d1)
//	[d2, d3)  ramp-out: table * (d3-dist)/(d3-d2)
//	[d3, inf) zero
//
// Coincident distinct particles (dist == 0) fall into the hard-repulsion
// branch at full strength; the caller picks the fallback direction.
func ForceMagnitude(dist float32, target, source particle.Type, table *interaction.Table, z Zones) float32 {
	switch {
	case dist < z.D1:
		return -z.Repulsion * (z.D1 - dist) / z.D1
	case dist >= z.D3:
		return 0
	case dist >= z.D2:
		return table.Get(target, source) * (z.D3 - dist) / (z.D3 - z.D2)
	default:
		return table.Get(target, source) * (dist - z.D1) / (z.D2 - z.D1)
	}
}
