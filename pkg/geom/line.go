package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Line2 is a pair of distinct points describing a linear locus in 2D.
// Whether the locus is an unbounded line, a ray anchored at the first
// point, or a segment between the two is decided by the Bound argument
// to the intersection routines, not by the type.
type Line2 [2]v2.Vec

// Line3 is the 3D counterpart of Line2.
type Line3 [2]v3.Vec

// Dir returns the (unnormalized) direction from the first point to the second.
func (l Line2) Dir() v2.Vec { return l[1].Sub(l[0]) }

// At returns the point at parameter t, with t=0 at the first point and
// t=1 at the second.
func (l Line2) At(t float64) v2.Vec { return Lerp2(l[0], l[1], t) }

// Dir returns the (unnormalized) direction from the first point to the second.
func (l Line3) Dir() v3.Vec { return l[1].Sub(l[0]) }

// At returns the point at parameter t.
func (l Line3) At(t float64) v3.Vec { return Lerp3(l[0], l[1], t) }

// Bound selects how a Line2/Line3 parameter range is restricted.
type Bound int

const (
	// BoundLine places no restriction on the parameter.
	BoundLine Bound = iota
	// BoundRay restricts the parameter to t >= 0.
	BoundRay
	// BoundSegment restricts the parameter to 0 <= t <= 1.
	BoundSegment
)

// inBound reports whether parameter t is inside the permitted range for b.
// The eps slack is applied symmetrically on both range boundaries so that
// intersections exactly at an endpoint are not lost to rounding.
func inBound(t float64, b Bound, eps float64) bool {
	switch b {
	case BoundRay:
		return t >= -eps
	case BoundSegment:
		return t >= -eps && t <= 1+eps
	}
	return true
}

// SideOfLine returns the signed 2D cross product of the directed line and
// the vector from the line's start to p. Positive means p is left of the
// directed line, zero on the line, negative right.
func SideOfLine(p v2.Vec, l Line2) float64 {
	return l.Dir().Cross(p.Sub(l[0]))
}

// DistanceToLine returns the perpendicular distance from p to the
// unbounded line through l. It projects the start-to-point vector onto
// the unit line direction and measures the residual.
func DistanceToLine(l Line2, p v2.Vec) float64 {
	d := l.Dir().Normalize()
	rel := p.Sub(l[0])
	return rel.Sub(d.MulScalar(rel.Dot(d))).Length()
}

// DistanceToLine3 is the 3D counterpart of DistanceToLine.
func DistanceToLine3(l Line3, p v3.Vec) float64 {
	d := l.Dir().Normalize()
	rel := p.Sub(l[0])
	return rel.Sub(d.MulScalar(rel.Dot(d))).Length()
}

// LineNormal returns the unit vector perpendicular to the line from p1
// to p2, rotated 90 degrees counterclockwise from the line direction.
func LineNormal(p1, p2 v2.Vec) v2.Vec {
	d := p2.Sub(p1)
	return v2.Vec{X: -d.Y, Y: d.X}.Normalize()
}

// Collinear reports whether c lies on the line through a and b, within
// eps. Coincident a and b count as collinear with everything.
func Collinear(a, b, c v2.Vec, eps float64) bool {
	if a.Equals(b, eps) {
		return true
	}
	return DistanceToLine(Line2{a, b}, c) <= eps
}

// Collinear3 is the 3D counterpart of Collinear.
func Collinear3(a, b, c v3.Vec, eps float64) bool {
	if a.Equals(b, eps) {
		return true
	}
	return DistanceToLine3(Line3{a, b}, c) <= eps
}

// PointOnSegment reports whether p lies on the segment s within eps.
// Endpoint coincidence is checked first so that degenerate segments
// never reach the perpendicular-distance test.
func PointOnSegment(p v2.Vec, s Line2, eps float64) bool {
	if p.Equals(s[0], eps) || p.Equals(s[1], eps) {
		return true
	}
	if p.X < math.Min(s[0].X, s[1].X)-eps || p.X > math.Max(s[0].X, s[1].X)+eps ||
		p.Y < math.Min(s[0].Y, s[1].Y)-eps || p.Y > math.Max(s[0].Y, s[1].Y)+eps {
		return false
	}
	return DistanceToLine(s, p) <= eps
}

// intersectParams solves the 2x2 linear system for the parameters t
// (along a) and u (along b) where the two loci meet. ok is false when
// the direction determinant is within eps of zero (parallel lines).
func intersectParams(a, b Line2, eps float64) (t, u float64, ok bool) {
	da, db := a.Dir(), b.Dir()
	denom := da.Cross(db)
	if math.Abs(denom) <= eps {
		return 0, 0, false
	}
	w := b[0].Sub(a[0])
	return w.Cross(db) / denom, w.Cross(da) / denom, true
}

// Parallel reports whether the directions of a and b are parallel within eps.
func Parallel(a, b Line2, eps float64) bool {
	return math.Abs(a.Dir().Cross(b.Dir())) <= eps
}

// Coincident reports whether a and b are parallel and lie on the same
// unbounded line.
func Coincident(a, b Line2, eps float64) bool {
	return Parallel(a, b, eps) && DistanceToLine(a, b[0]) <= eps
}

// Intersect is the generalized two-line solver. It returns the meeting
// point of the two loci, with each locus restricted by its Bound.
// There is no result for parallel inputs (coincident or not) or when a
// parameter falls outside its permitted range.
func Intersect(a, b Line2, boundA, boundB Bound, eps float64) (v2.Vec, bool) {
	t, u, ok := intersectParams(a, b, eps)
	if !ok || !inBound(t, boundA, eps) || !inBound(u, boundB, eps) {
		return v2.Vec{}, false
	}
	return a.At(t), true
}

// IntersectLineLine intersects two unbounded lines.
func IntersectLineLine(a, b Line2, eps float64) (v2.Vec, bool) {
	return Intersect(a, b, BoundLine, BoundLine, eps)
}

// IntersectLineRay intersects an unbounded line with a ray.
func IntersectLineRay(line, ray Line2, eps float64) (v2.Vec, bool) {
	return Intersect(line, ray, BoundLine, BoundRay, eps)
}

// IntersectLineSegment intersects an unbounded line with a segment.
func IntersectLineSegment(line, seg Line2, eps float64) (v2.Vec, bool) {
	return Intersect(line, seg, BoundLine, BoundSegment, eps)
}

// IntersectRayRay intersects two rays.
func IntersectRayRay(a, b Line2, eps float64) (v2.Vec, bool) {
	return Intersect(a, b, BoundRay, BoundRay, eps)
}

// IntersectRaySegment intersects a ray with a segment.
func IntersectRaySegment(ray, seg Line2, eps float64) (v2.Vec, bool) {
	return Intersect(ray, seg, BoundRay, BoundSegment, eps)
}

// IntersectSegmentSegment intersects two segments.
func IntersectSegmentSegment(a, b Line2, eps float64) (v2.Vec, bool) {
	return Intersect(a, b, BoundSegment, BoundSegment, eps)
}

// ClosestPointOnLine returns the point on the unbounded line l nearest
// to p (the foot of the perpendicular through p).
func ClosestPointOnLine(l Line2, p v2.Vec) v2.Vec {
	d := l.Dir()
	t := p.Sub(l[0]).Dot(d) / d.Length2()
	return l.At(t)
}

// ClosestPointOnSegment returns the point on segment s nearest to p.
// When the perpendicular foot falls outside the segment the nearer
// endpoint is returned. A zero-length segment returns its endpoint.
func ClosestPointOnSegment(s Line2, p v2.Vec) v2.Vec {
	d := s.Dir()
	l2 := d.Length2()
	if l2 == 0 {
		return s[0]
	}
	t := p.Sub(s[0]).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return s.At(t)
}

// ClosestPointOnLine3 is the 3D counterpart of ClosestPointOnLine.
func ClosestPointOnLine3(l Line3, p v3.Vec) v3.Vec {
	d := l.Dir()
	t := p.Sub(l[0]).Dot(d) / d.Length2()
	return l.At(t)
}

// ClosestPointOnSegment3 is the 3D counterpart of ClosestPointOnSegment.
func ClosestPointOnSegment3(s Line3, p v3.Vec) v3.Vec {
	d := s.Dir()
	l2 := d.Length2()
	if l2 == 0 {
		return s[0]
	}
	t := p.Sub(s[0]).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return s.At(t)
}
