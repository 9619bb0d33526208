package geom

import (
	"math"
	"sort"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Plane represents the locus Normal·p = Offset. The kernel keeps Normal
// unit length in every plane it constructs, so Offset is the signed
// distance of the plane from the origin along the normal.
type Plane struct {
	Normal v3.Vec
	Offset float64
}

// PlaneFrom3Points builds the plane through three points. There is no
// result when the points are collinear within eps.
func PlaneFrom3Points(p1, p2, p3 v3.Vec, eps float64) (Plane, bool) {
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if n.Length() <= eps {
		return Plane{}, false
	}
	n = n.Normalize()
	return Plane{Normal: n, Offset: n.Dot(p1)}, true
}

// PlaneFromPoints fits a plane through a point set. A well-separated,
// non-collinear triple is chosen (maximizing triangle area among the
// candidates) so near-collinear triples do not poison the normal. Unless
// fast is set, every remaining point is verified to lie within eps of
// the plane; verification failure means no result.
func PlaneFromPoints(pts []v3.Vec, fast bool, eps float64) (Plane, bool) {
	if len(pts) < 3 {
		return Plane{}, false
	}

	// Farthest point from the first vertex anchors the base edge.
	i1 := 0
	best := 0.0
	for i, p := range pts {
		if d := p.Sub(pts[0]).Length(); d > best {
			best, i1 = d, i
		}
	}
	// Third point maximizing the triangle area with the base edge.
	i2 := 0
	best = 0.0
	base := pts[i1].Sub(pts[0])
	for i, p := range pts {
		if a := base.Cross(p.Sub(pts[0])).Length(); a > best {
			best, i2 = a, i
		}
	}

	pl, ok := PlaneFrom3Points(pts[0], pts[i1], pts[i2], eps)
	if !ok {
		return Plane{}, false
	}
	if !fast {
		for _, p := range pts {
			if !pl.Contains(p, eps) {
				return Plane{}, false
			}
		}
	}
	return pl, true
}

// PlaneFromPolygon builds the plane a 3D polygon lies in, oriented by
// the polygon's winding (Newell normal). Unless fast is set, every
// vertex is verified to be within eps of the plane.
func PlaneFromPolygon(poly Polygon3, fast bool, eps float64) (Plane, bool) {
	n, ok := poly.Normal()
	if !ok {
		return Plane{}, false
	}
	pl := Plane{Normal: n, Offset: n.Dot(poly[0])}
	if !fast {
		for _, p := range poly {
			if !pl.Contains(p, eps) {
				return Plane{}, false
			}
		}
	}
	return pl, true
}

// Distance returns the signed distance from p to the plane, positive on
// the side the normal points toward.
func (pl Plane) Distance(p v3.Vec) float64 {
	return pl.Normal.Dot(p) - pl.Offset
}

// ClosestPoint returns the orthogonal projection of p onto the plane.
func (pl Plane) ClosestPoint(p v3.Vec) v3.Vec {
	return p.Sub(pl.Normal.MulScalar(pl.Distance(p)))
}

// Contains reports whether p lies within eps of the plane.
func (pl Plane) Contains(p v3.Vec, eps float64) bool {
	return math.Abs(pl.Distance(p)) <= eps
}

// ContainsLine reports whether both points of l lie within eps of the plane.
func (pl Plane) ContainsLine(l Line3, eps float64) bool {
	return pl.Contains(l[0], eps) && pl.Contains(l[1], eps)
}

// Coplanar reports whether all the given points lie within eps of a
// common plane. Fewer than four points are always coplanar.
func Coplanar(pts []v3.Vec, eps float64) bool {
	if len(pts) < 4 {
		return true
	}
	_, ok := PlaneFromPoints(pts, false, eps)
	return ok
}

// LineCrossing describes how a linear locus meets a plane or polygon.
type LineCrossing int

const (
	// CrossNone means the locus misses entirely: parallel and disjoint,
	// or the meeting parameter is outside the permitted bound.
	CrossNone LineCrossing = iota
	// CrossPoint means the locus pierces at a single point.
	CrossPoint
	// CrossCoplanar means the locus is embedded in the plane.
	CrossCoplanar
)

// IntersectLine intersects a linear locus with the plane. The bound
// restricts the locus to a ray or segment exactly as in the 2D solver.
// A locus whose direction is perpendicular to the normal within eps is
// either embedded (CrossCoplanar) or strictly parallel (CrossNone).
func (pl Plane) IntersectLine(l Line3, bound Bound, eps float64) (v3.Vec, LineCrossing) {
	d := l.Dir()
	denom := pl.Normal.Dot(d)
	if math.Abs(denom) <= eps {
		if pl.Contains(l[0], eps) {
			return v3.Vec{}, CrossCoplanar
		}
		return v3.Vec{}, CrossNone
	}
	t := (pl.Offset - pl.Normal.Dot(l[0])) / denom
	if !inBound(t, bound, eps) {
		return v3.Vec{}, CrossNone
	}
	return l.At(t), CrossPoint
}

// IntersectThreePlanes returns the single point shared by three planes,
// solving the 3x3 system of their coefficient rows. There is no result
// when the system is singular (the planes share no unique point).
func IntersectThreePlanes(a, b, c Plane, eps float64) (v3.Vec, bool) {
	det := a.Normal.Dot(b.Normal.Cross(c.Normal))
	if math.Abs(det) <= eps {
		return v3.Vec{}, false
	}
	p := b.Normal.Cross(c.Normal).MulScalar(a.Offset).
		Add(c.Normal.Cross(a.Normal).MulScalar(b.Offset)).
		Add(a.Normal.Cross(b.Normal).MulScalar(c.Offset)).
		DivScalar(det)
	return p, true
}

// IntersectPlanes returns the line where two planes meet, as a point on
// the line and a second point one unit along the cross-product
// direction. Parallel normals yield no result.
func IntersectPlanes(a, b Plane, eps float64) (Line3, bool) {
	dir := a.Normal.Cross(b.Normal)
	if dir.Length() <= eps {
		return Line3{}, false
	}
	dir = dir.Normalize()
	// A third plane through the origin, normal to the line direction,
	// reduces the problem to the three-plane point solve.
	p, ok := IntersectThreePlanes(a, b, Plane{Normal: dir}, eps)
	if !ok {
		return Line3{}, false
	}
	return Line3{p, p.Add(dir)}, true
}

// rotationToXY returns the rotation taking the plane normal onto +Z.
// For any point p on the plane the rotated z coordinate equals Offset.
func (pl Plane) rotationToXY() sdf.M44 {
	return sdf.RotateToVector(pl.Normal, v3.Vec{X: 0, Y: 0, Z: 1})
}

// Project maps a point into the plane's 2D frame.
func (pl Plane) Project(p v3.Vec) v2.Vec {
	q := pl.rotationToXY().MulPosition(p)
	return v2.Vec{X: q.X, Y: q.Y}
}

// Unproject lifts a point from the plane's 2D frame back into 3D,
// placing it on the plane.
func (pl Plane) Unproject(p v2.Vec) v3.Vec {
	m := pl.rotationToXY().Inverse()
	return m.MulPosition(v3.Vec{X: p.X, Y: p.Y, Z: pl.Offset})
}

// LinePolygonHit is the result of intersecting a linear locus with a
// planar polygon. Crossing selects which field is meaningful: Point for
// CrossPoint, Segments for CrossCoplanar.
type LinePolygonHit struct {
	Crossing LineCrossing
	Point    v3.Vec
	Segments []Line3
}

// IntersectLinePolygon intersects a linear locus with a planar 3D
// polygon. A locus embedded in the polygon's plane is clipped to the
// portions inside the polygon, reported as sub-segments; a locus that
// pierces the plane reports the pierce point when it falls inside the
// polygon. Everything else, including a non-planar input polygon, has
// no result.
func IntersectLinePolygon(l Line3, poly Polygon3, bound Bound, eps float64) (LinePolygonHit, bool) {
	pl, ok := PlaneFromPolygon(poly, true, eps)
	if !ok {
		return LinePolygonHit{}, false
	}
	pt, crossing := pl.IntersectLine(l, bound, eps)
	switch crossing {
	case CrossNone:
		return LinePolygonHit{}, false
	case CrossPoint:
		poly2 := poly.project(pl)
		if poly2.Contains(pl.Project(pt), eps) == Outside {
			return LinePolygonHit{}, false
		}
		return LinePolygonHit{Crossing: CrossPoint, Point: pt}, true
	}

	// Coplanar: clip the locus against the polygon in the plane's 2D
	// frame, then lift the surviving intervals back to 3D. Projection is
	// affine, so interval parameters carry over unchanged.
	poly2 := poly.project(pl)
	l2 := Line2{pl.Project(l[0]), pl.Project(l[1])}

	var ts []float64
	switch bound {
	case BoundSegment:
		ts = append(ts, 0, 1)
	case BoundRay:
		ts = append(ts, 0)
	}
	n := len(poly2)
	for i := 0; i < n; i++ {
		edge := Line2{poly2[i], poly2[(i+1)%n]}
		t, u, ok := intersectParams(l2, edge, eps)
		if ok && inBound(u, BoundSegment, eps) && inBound(t, bound, eps) {
			ts = append(ts, t)
		}
	}
	if len(ts) < 2 {
		return LinePolygonHit{}, false
	}
	sort.Float64s(ts)

	var segs []Line3
	for i := 0; i+1 < len(ts); i++ {
		t1, t2 := ts[i], ts[i+1]
		if t2-t1 <= eps {
			continue
		}
		mid := l2.At((t1 + t2) / 2)
		if poly2.Contains(mid, eps) != Outside {
			segs = append(segs, Line3{l.At(t1), l.At(t2)})
		}
	}
	if len(segs) == 0 {
		return LinePolygonHit{}, false
	}
	return LinePolygonHit{Crossing: CrossCoplanar, Segments: segs}, true
}
