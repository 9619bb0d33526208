package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Polygon2 is an ordered sequence of 3+ vertices, implicitly closed:
// the last vertex connects back to the first, with no duplicate closing
// vertex. Most routines assume a simple (non-self-intersecting) input;
// Contains handles self-intersecting polygons as well.
type Polygon2 []v2.Vec

// Polygon3 is a 3D polygon; routines that need a plane assume the
// vertices are coplanar unless they verify it explicitly.
type Polygon3 []v3.Vec

// SignedArea returns half the shoelace sum. The sign encodes winding:
// positive for counterclockwise, negative for clockwise.
func (p Polygon2) SignedArea() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p[i].Cross(p[j])
	}
	return area / 2
}

// Area returns the unsigned area.
func (p Polygon2) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Area returns the area of a 3D polygon: the magnitude of the
// shoelace-style cross-product sum projected onto the polygon's normal.
func (p Polygon3) Area() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	sum := v3.Vec{}
	for i := 0; i < n; i++ {
		sum = sum.Add(p[i].Cross(p[(i+1)%n]))
	}
	return sum.Length() / 2
}

// Normal returns the unit normal of a 3D polygon using the
// cross-product fan relative to vertex 0 (Newell's method), which stays
// robust under mild non-planarity. There is no result when the vertices
// are collinear.
func (p Polygon3) Normal() (v3.Vec, bool) {
	n := len(p)
	if n < 3 {
		return v3.Vec{}, false
	}
	sum := v3.Vec{}
	for i := 1; i+1 < n; i++ {
		sum = sum.Add(p[i].Sub(p[0]).Cross(p[i+1].Sub(p[0])))
	}
	if sum.Length() == 0 {
		return v3.Vec{}, false
	}
	return sum.Normalize(), true
}

// IsConvex reports whether the polygon is convex: the turn direction at
// every vertex has a single sign (zeros allowed). The result is
// meaningless for self-intersecting input.
func (p Polygon2) IsConvex(eps float64) bool {
	n := len(p)
	if n < 3 {
		return false
	}
	pos, neg := false, false
	for i := 0; i < n; i++ {
		a, b, c := p[i], p[(i+1)%n], p[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if cross > eps {
			pos = true
		} else if cross < -eps {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// extremeVertex returns the index of the vertex with minimum x, ties
// broken by minimum y. That vertex is on the convex hull, so the turn
// direction there gives the winding without the sign ambiguity a total
// signed-area test suffers near self-intersections.
func (p Polygon2) extremeVertex() int {
	idx := 0
	for i, v := range p {
		if v.X < p[idx].X || (v.X == p[idx].X && v.Y < p[idx].Y) {
			idx = i
		}
	}
	return idx
}

// IsClockwise reports whether the vertices wind clockwise.
func (p Polygon2) IsClockwise() bool {
	n := len(p)
	if n < 3 {
		return false
	}
	i := p.extremeVertex()
	prev, next := p[(i+n-1)%n], p[(i+1)%n]
	return p[i].Sub(prev).Cross(next.Sub(p[i])) < 0
}

// Reverse returns the polygon with vertex order reversed.
func (p Polygon2) Reverse() Polygon2 {
	out := make(Polygon2, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Reverse returns the polygon with vertex order reversed.
func (p Polygon3) Reverse() Polygon3 {
	out := make(Polygon3, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Clockwise returns the polygon normalized to clockwise winding.
func (p Polygon2) Clockwise() Polygon2 {
	if p.IsClockwise() {
		return p
	}
	return p.Reverse()
}

// CounterClockwise returns the polygon normalized to counterclockwise winding.
func (p Polygon2) CounterClockwise() Polygon2 {
	if p.IsClockwise() {
		return p.Reverse()
	}
	return p
}

// Centroid returns the area-weighted centroid. Degenerate polygons
// (fewer than 3 vertices, or near-zero area) fall back to the vertex
// average.
func (p Polygon2) Centroid() v2.Vec {
	n := len(p)
	if n == 0 {
		return v2.Vec{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		sum := v2.Vec{}
		for _, v := range p {
			sum = sum.Add(v)
		}
		return sum.DivScalar(float64(n))
	}
	c := v2.Vec{}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p[i].Cross(p[j])
		c = c.Add(p[i].Add(p[j]).MulScalar(cross))
	}
	return c.DivScalar(6 * a)
}

// Centroid returns the centroid of a planar 3D polygon by projecting to
// the polygon's plane, taking the 2D centroid, and lifting back. There
// is no result when the vertices are collinear.
func (p Polygon3) Centroid() (v3.Vec, bool) {
	pl, ok := PlaneFromPolygon(p, true, Epsilon)
	if !ok {
		return v3.Vec{}, false
	}
	return pl.Unproject(p.project(pl).Centroid()), true
}

// project maps every vertex into the plane's 2D frame.
func (p Polygon3) project(pl Plane) Polygon2 {
	out := make(Polygon2, len(p))
	for i, v := range p {
		out[i] = pl.Project(v)
	}
	return out
}

// Containment classifies a point against a polygon boundary.
type Containment int

const (
	Outside    Containment = -1
	OnBoundary Containment = 0
	Inside     Containment = 1
)

// Contains classifies pt against the polygon using the winding-number
// method. Points within eps of any edge are OnBoundary regardless of
// winding direction; zero-length edges are skipped in that scan. The
// interior test accumulates signed horizontal-ray crossings, so
// self-intersecting polygons are handled; holes are not.
func (p Polygon2) Contains(pt v2.Vec, eps float64) Containment {
	n := len(p)
	if n < 3 {
		return Outside
	}
	for i := 0; i < n; i++ {
		a, b := p[i], p[(i+1)%n]
		if a.Equals(b, eps) {
			continue
		}
		if PointOnSegment(pt, Line2{a, b}, eps) {
			return OnBoundary
		}
	}
	winding := 0
	for i := 0; i < n; i++ {
		a, b := p[i], p[(i+1)%n]
		if a.Y <= pt.Y {
			if b.Y > pt.Y && b.Sub(a).Cross(pt.Sub(a)) > 0 {
				winding++
			}
		} else {
			if b.Y <= pt.Y && b.Sub(a).Cross(pt.Sub(a)) < 0 {
				winding--
			}
		}
	}
	if winding != 0 {
		return Inside
	}
	return Outside
}

// rotate returns the polygon re-indexed to start at vertex i.
func rotate[P ~[]V, V any](p P, i int) P {
	out := make(P, 0, len(p))
	out = append(out, p[i:]...)
	return append(out, p[:i]...)
}

// bestShift finds the cyclic shift minimizing the total distance
// between corresponding vertices, given the full pairwise distance
// matrix. Brute force over all shifts: polygons here are modeling
// scale, not meshes.
func bestShift(dist [][]float64) (shift int, total float64) {
	n := len(dist)
	total = math.Inf(1)
	for s := 0; s < n; s++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += dist[i][(i+s)%n]
		}
		if sum < total {
			total, shift = sum, s
		}
	}
	return shift, total
}

// Reindex returns poly re-indexed (rotated, not reshaped) so its
// vertices best correspond to reference, minimizing the total pairwise
// distance over all cyclic shifts. The winding of poly is normalized to
// match the reference first. Vertex counts must agree.
func Reindex(reference, poly Polygon2) Polygon2 {
	out, _ := reindexScore(reference, poly)
	return out
}

func reindexScore(reference, poly Polygon2) (Polygon2, float64) {
	if len(reference) != len(poly) {
		panic(fmt.Sprintf("geom: reindex needs equal vertex counts, got %d and %d",
			len(reference), len(poly)))
	}
	if reference.IsClockwise() != poly.IsClockwise() {
		poly = poly.Reverse()
	}
	n := len(poly)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			dist[i][j] = reference[i].Sub(poly[j]).Length()
		}
	}
	shift, total := bestShift(dist)
	return rotate(poly, shift), total
}

// Reindex3 is the 3D counterpart of Reindex. Winding is left alone:
// there is no canonical winding without a reference normal.
func Reindex3(reference, poly Polygon3) Polygon3 {
	if len(reference) != len(poly) {
		panic(fmt.Sprintf("geom: reindex needs equal vertex counts, got %d and %d",
			len(reference), len(poly)))
	}
	n := len(poly)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			dist[i][j] = reference[i].Sub(poly[j]).Length()
		}
	}
	shift, _ := bestShift(dist)
	return rotate(poly, shift)
}

// Align rotates poly about its centroid by each candidate angle (in
// degrees), reindexes the rotated polygon against reference, and
// returns the candidate with the smallest total distance. The angle
// list must not be empty.
func Align(reference, poly Polygon2, angles []float64) Polygon2 {
	if len(angles) == 0 {
		panic("geom: align needs at least one candidate angle")
	}
	center := poly.Centroid()
	best := math.Inf(1)
	var out Polygon2
	for _, ang := range angles {
		m := sdf.Rotate2d(sdf.DtoR(ang))
		rotated := make(Polygon2, len(poly))
		for i, v := range poly {
			rotated[i] = m.MulPosition(v.Sub(center)).Add(center)
		}
		candidate, total := reindexScore(reference, rotated)
		if total < best {
			best, out = total, candidate
		}
	}
	return out
}
