package sim

import "math"

// fastSqrt approximates sqrt(x) using fast inverse sqrt with one Newton
// step. Avoids the float32->float64 round trip in the force hot path.
func fastSqrt(x float32) float32 {
	if x <= 0 {
		return 0
	}
	i := math.Float32bits(x)
	i = 0x5f375a86 - (i >> 1)
	y := math.Float32frombits(i)
	y = y * (1.5 - 0.5*x*y*y)
	return x * y
}
