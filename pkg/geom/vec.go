package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the default tolerance for approximate comparisons.
// Every tolerance-sensitive function takes an explicit eps parameter;
// callers with no special needs pass Epsilon.
const Epsilon = 1e-9

// EqualWithin reports whether a and b differ by at most eps.
func EqualWithin(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// ZeroWithin reports whether a is within eps of zero.
func ZeroWithin(a, eps float64) bool {
	return math.Abs(a) <= eps
}

// Lerp2 returns the linear interpolation between a and b at t.
func Lerp2(a, b v2.Vec, t float64) v2.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Lerp3 returns the linear interpolation between a and b at t.
func Lerp3(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}
