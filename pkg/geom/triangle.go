package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// RightTriangle is a fully-solved right triangle. Angle is the interior
// angle (degrees) between the hypotenuse and the adjacent side;
// OtherAngle is its complement. The right angle sits between the
// adjacent and opposite sides.
type RightTriangle struct {
	Angle      float64
	OtherAngle float64
	Adjacent   float64
	Opposite   float64
	Hypotenuse float64
}

// Unknown marks a RightTriangle input as not supplied.
var Unknown = math.NaN()

func known(v float64) bool { return !math.IsNaN(v) }

func assertPositive(name string, v float64) {
	if !(v > 0) {
		panic(fmt.Sprintf("geom: right triangle %s must be positive, got %v", name, v))
	}
}

func assertAngle(name string, v float64) {
	if !(v > 0 && v < 90) {
		panic(fmt.Sprintf("geom: right triangle %s must be in (0,90) degrees, got %v", name, v))
	}
}

func assertHypLonger(hyp, leg float64) {
	if hyp <= leg {
		panic(fmt.Sprintf("geom: hypotenuse %v must exceed leg %v", hyp, leg))
	}
}

// SolveRightTriangle derives the full triangle from exactly two known
// values among {angle, otherAngle, adjacent, opposite, hypotenuse};
// pass Unknown for the rest. Supplying both angles is forbidden (they
// are redundant and cannot fix a scale). Precondition violations panic;
// this is the programmer-error channel, not a geometric degeneracy.
func SolveRightTriangle(angle, otherAngle, adjacent, opposite, hypotenuse float64) RightTriangle {
	count := 0
	for _, v := range []float64{angle, otherAngle, adjacent, opposite, hypotenuse} {
		if known(v) {
			count++
		}
	}
	if count != 2 {
		panic(fmt.Sprintf("geom: right triangle needs exactly 2 known values, got %d", count))
	}
	if known(angle) && known(otherAngle) {
		panic("geom: right triangle cannot be solved from both angles")
	}

	if known(otherAngle) {
		assertAngle("other angle", otherAngle)
		angle = 90 - otherAngle
	}
	if known(angle) {
		assertAngle("angle", angle)
	}
	if known(adjacent) {
		assertPositive("adjacent", adjacent)
	}
	if known(opposite) {
		assertPositive("opposite", opposite)
	}
	if known(hypotenuse) {
		assertPositive("hypotenuse", hypotenuse)
	}

	switch {
	case known(adjacent) && known(opposite):
		hypotenuse = math.Hypot(adjacent, opposite)
		angle = sdf.RtoD(math.Atan2(opposite, adjacent))
	case known(adjacent) && known(hypotenuse):
		assertHypLonger(hypotenuse, adjacent)
		opposite = math.Sqrt(hypotenuse*hypotenuse - adjacent*adjacent)
		angle = sdf.RtoD(math.Acos(adjacent / hypotenuse))
	case known(opposite) && known(hypotenuse):
		assertHypLonger(hypotenuse, opposite)
		adjacent = math.Sqrt(hypotenuse*hypotenuse - opposite*opposite)
		angle = sdf.RtoD(math.Asin(opposite / hypotenuse))
	case known(adjacent): // angle + adjacent
		opposite = adjacent * math.Tan(sdf.DtoR(angle))
		hypotenuse = adjacent / math.Cos(sdf.DtoR(angle))
	case known(opposite): // angle + opposite
		adjacent = opposite / math.Tan(sdf.DtoR(angle))
		hypotenuse = opposite / math.Sin(sdf.DtoR(angle))
	default: // angle + hypotenuse
		adjacent = hypotenuse * math.Cos(sdf.DtoR(angle))
		opposite = hypotenuse * math.Sin(sdf.DtoR(angle))
	}

	return RightTriangle{
		Angle:      angle,
		OtherAngle: 90 - angle,
		Adjacent:   adjacent,
		Opposite:   opposite,
		Hypotenuse: hypotenuse,
	}
}

// The pairwise converters below are direct trig formulas with the same
// precondition channel as SolveRightTriangle: lengths positive, angles
// in (0,90) degrees, hypotenuse longer than either leg.

// HypOppToAdj returns the adjacent side from hypotenuse and opposite.
func HypOppToAdj(hyp, opp float64) float64 {
	assertPositive("hypotenuse", hyp)
	assertPositive("opposite", opp)
	assertHypLonger(hyp, opp)
	return math.Sqrt(hyp*hyp - opp*opp)
}

// HypAdjToOpp returns the opposite side from hypotenuse and adjacent.
func HypAdjToOpp(hyp, adj float64) float64 {
	assertPositive("hypotenuse", hyp)
	assertPositive("adjacent", adj)
	assertHypLonger(hyp, adj)
	return math.Sqrt(hyp*hyp - adj*adj)
}

// AdjOppToHyp returns the hypotenuse from the two legs.
func AdjOppToHyp(adj, opp float64) float64 {
	assertPositive("adjacent", adj)
	assertPositive("opposite", opp)
	return math.Hypot(adj, opp)
}

// HypAngToOpp returns the opposite side from hypotenuse and angle (degrees).
func HypAngToOpp(hyp, ang float64) float64 {
	assertPositive("hypotenuse", hyp)
	assertAngle("angle", ang)
	return hyp * math.Sin(sdf.DtoR(ang))
}

// HypAngToAdj returns the adjacent side from hypotenuse and angle (degrees).
func HypAngToAdj(hyp, ang float64) float64 {
	assertPositive("hypotenuse", hyp)
	assertAngle("angle", ang)
	return hyp * math.Cos(sdf.DtoR(ang))
}

// OppAngToHyp returns the hypotenuse from opposite and angle (degrees).
func OppAngToHyp(opp, ang float64) float64 {
	assertPositive("opposite", opp)
	assertAngle("angle", ang)
	return opp / math.Sin(sdf.DtoR(ang))
}

// OppAngToAdj returns the adjacent side from opposite and angle (degrees).
func OppAngToAdj(opp, ang float64) float64 {
	assertPositive("opposite", opp)
	assertAngle("angle", ang)
	return opp / math.Tan(sdf.DtoR(ang))
}

// AdjAngToHyp returns the hypotenuse from adjacent and angle (degrees).
func AdjAngToHyp(adj, ang float64) float64 {
	assertPositive("adjacent", adj)
	assertAngle("angle", ang)
	return adj / math.Cos(sdf.DtoR(ang))
}

// AdjAngToOpp returns the opposite side from adjacent and angle (degrees).
func AdjAngToOpp(adj, ang float64) float64 {
	assertPositive("adjacent", adj)
	assertAngle("angle", ang)
	return adj * math.Tan(sdf.DtoR(ang))
}

// HypOppToAng returns the angle (degrees) from hypotenuse and opposite.
func HypOppToAng(hyp, opp float64) float64 {
	assertPositive("hypotenuse", hyp)
	assertPositive("opposite", opp)
	assertHypLonger(hyp, opp)
	return sdf.RtoD(math.Asin(opp / hyp))
}

// HypAdjToAng returns the angle (degrees) from hypotenuse and adjacent.
func HypAdjToAng(hyp, adj float64) float64 {
	assertPositive("hypotenuse", hyp)
	assertPositive("adjacent", adj)
	assertHypLonger(hyp, adj)
	return sdf.RtoD(math.Acos(adj / hyp))
}

// AdjOppToAng returns the angle (degrees) from the two legs.
func AdjOppToAng(adj, opp float64) float64 {
	assertPositive("adjacent", adj)
	assertPositive("opposite", opp)
	return sdf.RtoD(math.Atan2(opp, adj))
}
