package sim

import (
	"log/slog"

	"github.com/pthm-cable/plife/systems"
	"github.com/pthm-cable/plife/telemetry"
)

// Step advances the simulation by one tick. No-op while disabled.
//
// Pipeline: snapshot all (id, type, position, velocity) -> rebuild the
// bucket grid over the snapshot -> for each particle, fold the force model
// over its 3x3 neighborhood and integrate -> apply results in snapshot
// order. Force evaluation reads only the pre-tick snapshot, never a
// neighbor's updated position, so per-particle evaluation order cannot
// change the outcome within a tick.
func (e *Engine) Step() {
	if !e.enabled {
		return
	}

	e.perf.StartTick()

	e.perf.StartPhase(telemetry.PhaseSnapshot)
	e.buildSnapshot()

	e.perf.StartPhase(telemetry.PhaseGrid)
	e.grid.Rebuild(e.parallel.entries)

	e.perf.StartPhase(telemetry.PhaseForces)
	e.computeForces()

	e.perf.StartPhase(telemetry.PhaseApply)
	e.applyIntents()

	e.tick++

	e.perf.StartPhase(telemetry.PhaseTelemetry)
	e.flushTelemetry()

	e.perf.EndTick()
}

// buildSnapshot copies the particle set into the reusable snapshot and
// grid-entry buffers. Snapshot index i corresponds to set index i; apply
// relies on that.
func (e *Engine) buildSnapshot() {
	particles := e.set.Particles()

	e.parallel.snapshots = e.parallel.snapshots[:0]
	e.parallel.entries = e.parallel.entries[:0]

	for _, p := range particles {
		e.parallel.snapshots = append(e.parallel.snapshots, snapshot{
			ID:   p.ID,
			Type: p.Type,
			PosX: p.Pos.X,
			PosY: p.Pos.Y,
			VelX: p.Vel.X,
			VelY: p.Vel.Y,
		})
		e.parallel.entries = append(e.parallel.entries, systems.Entry{
			ID:   p.ID,
			Type: p.Type,
			X:    p.Pos.X,
			Y:    p.Pos.Y,
		})
	}
}

// computeForces fills the intent buffer from the snapshot, single-threaded
// below parallelThreshold, via the worker pool above it. Results are
// identical either way: every particle's intent depends only on the frozen
// snapshot and the read-only table.
func (e *Engine) computeForces() {
	n := len(e.parallel.snapshots)
	if n == 0 {
		return
	}

	if cap(e.parallel.intents) < n {
		e.parallel.intents = make([]intent, n)
	}
	e.parallel.intents = e.parallel.intents[:n]

	if n < parallelThreshold {
		e.computeChunk(0, n, &e.parallel.scratches[0])
		return
	}
	e.computeParallel(n)
}

// computeChunk processes snapshot indices [i0, i1).
func (e *Engine) computeChunk(i0, i1 int, scratch *workerScratch) {
	z := e.zones
	d3sq := z.D3 * z.D3
	table := e.table

	for i := i0; i < i1; i++ {
		snap := &e.parallel.snapshots[i]

		scratch.neighbors = e.grid.QueryInto(scratch.neighbors[:0], snap.PosX, snap.PosY, snap.ID)

		var fx, fy float32
		for _, n := range scratch.neighbors {
			dx := n.X - snap.PosX
			dy := n.Y - snap.PosY
			distSq := dx*dx + dy*dy
			if distSq >= d3sq {
				continue
			}

			var dirX, dirY, dist float32
			if distSq == 0 {
				// Distinct particles at the exact same position have no
				// meaningful direction; repel along +X so they separate
				// instead of dividing by zero.
				dirX, dirY, dist = 1, 0, 0
			} else {
				dist = fastSqrt(distSq)
				dirX = dx / dist
				dirY = dy / dist
			}

			mag := systems.ForceMagnitude(dist, snap.Type, n.Type, table, z)
			fx += dirX * mag
			fy += dirY * mag
		}

		x, y, vx, vy := systems.Integrate(snap.PosX, snap.PosY, snap.VelX, snap.VelY, fx, fy, e.integ)
		e.parallel.intents[i] = intent{PosX: x, PosY: y, VelX: vx, VelY: vy}
	}
}

// applyIntents commits computed positions and velocities back to the
// particle set, single-threaded, in snapshot order.
func (e *Engine) applyIntents() {
	particles := e.set.Particles()
	for i := range e.parallel.intents {
		in := &e.parallel.intents[i]
		particles[i].Pos.X = in.PosX
		particles[i].Pos.Y = in.PosY
		particles[i].Vel.X = in.VelX
		particles[i].Vel.Y = in.VelY
	}
}

// flushTelemetry emits window stats and perf records when a window ends.
func (e *Engine) flushTelemetry() {
	stats, ok := e.collector.Tick(e.tick, e.set.Particles())
	if !ok {
		return
	}

	if e.logStats {
		stats.LogStats()
		e.perf.Stats().LogStats(e.tick)
	}
	if err := e.output.WriteStats(stats); err != nil {
		slog.Error("writing stats record", "error", err)
	}
	if err := e.output.WritePerf(e.perf.Stats(), e.tick); err != nil {
		slog.Error("writing perf record", "error", err)
	}
}
