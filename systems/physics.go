package systems

// IntegrateParams holds the per-tick constants the integrator needs.
//
// Damping is the precomputed per-tick velocity factor 0.5^(dt/half_life);
// the damping parameter is canonically a half-life in seconds. HalfW and
// HalfH are the arena half-extents.
type IntegrateParams struct {
	DT      float32
	Damping float32
	HalfW   float32
	HalfH   float32
}

// Integrate advances one particle given its accumulated force:
// exponential velocity damping, force application, boundary handling,
// then the position update.
//
// Boundary policy is reflect-only-if-escaping, checked against the
// pre-move position: a velocity component is inverted only when the
// coordinate is already beyond the half-extent and the updated velocity
// still points further outward. Checking before the move means a
// particle that crossed the wall last tick always travels inward this
// tick, even under a sustained outward force, so overshoot never exceeds
// one step's displacement. A particle already heading back inward is
// left alone, which avoids reflection jitter at the walls.
func Integrate(posX, posY, velX, velY, forceX, forceY float32, p IntegrateParams) (x, y, vx, vy float32) {
	vx = velX * p.Damping
	vy = velY * p.Damping

	vx += forceX * p.DT
	vy += forceY * p.DT

	if (posX > p.HalfW && vx > 0) || (posX < -p.HalfW && vx < 0) {
		vx = -vx
	}
	if (posY > p.HalfH && vy > 0) || (posY < -p.HalfH && vy < 0) {
		vy = -vy
	}

	x = posX + vx*p.DT
	y = posY + vy*p.DT

	return x, y, vx, vy
}
