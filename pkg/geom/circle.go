package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Circle is a 2D circle. Radius must be positive.
type Circle struct {
	Center v2.Vec
	Radius float64
}

// Circle3 is a circle embedded in a 3D plane.
type Circle3 struct {
	Center v3.Vec
	Radius float64
	Plane  Plane
}

// onCircle returns the point on c at the given bearing (radians).
func (c Circle) onCircle(ang float64) v2.Vec {
	return c.Center.Add(v2.Vec{X: math.Cos(ang), Y: math.Sin(ang)}.MulScalar(c.Radius))
}

// TangentCircle is the result of TangentToRays: the constructed circle,
// the tangent point on each ray, and the signed angle (degrees) from
// each ray direction to the corner-to-center bisector.
type TangentCircle struct {
	Circle   Circle
	Tangent1 v2.Vec
	Tangent2 v2.Vec
	Angle1   float64
	Angle2   float64
}

// signedAngle returns the signed angle (radians) from a to b.
func signedAngle(a, b v2.Vec) float64 {
	return math.Atan2(a.Cross(b), a.Dot(b))
}

// TangentToRays constructs the circle of the given radius tangent to
// both rays leaving corner through p1 and p2. The center sits on the
// angle bisector at distance radius/sin(halfAngle) from the corner, and
// the tangent points sit on the rays at radius/tan(halfAngle). There is
// no result when the rays are collinear. A non-positive radius panics.
func TangentToRays(corner, p1, p2 v2.Vec, radius, eps float64) (TangentCircle, bool) {
	if radius <= 0 {
		panic(fmt.Sprintf("geom: tangent circle radius must be positive, got %v", radius))
	}
	d1, d2 := p1.Sub(corner), p2.Sub(corner)
	if math.Abs(d1.Cross(d2)) <= eps {
		return TangentCircle{}, false
	}
	u1, u2 := d1.Normalize(), d2.Normalize()
	bisector := u1.Add(u2).Normalize()
	half := math.Abs(signedAngle(u1, bisector))

	center := corner.Add(bisector.MulScalar(radius / math.Sin(half)))
	tangentDist := radius / math.Tan(half)
	return TangentCircle{
		Circle:   Circle{Center: center, Radius: radius},
		Tangent1: corner.Add(u1.MulScalar(tangentDist)),
		Tangent2: corner.Add(u2.MulScalar(tangentDist)),
		Angle1:   sdf.RtoD(signedAngle(u1, bisector)),
		Angle2:   sdf.RtoD(signedAngle(u2, bisector)),
	}, true
}

// Circumcircle returns the circle through three points, found by
// intersecting two perpendicular bisectors. There is no result when the
// points are collinear within eps.
func Circumcircle(a, b, c v2.Vec, eps float64) (Circle, bool) {
	if Collinear(a, b, c, eps) {
		return Circle{}, false
	}
	mab := Lerp2(a, b, 0.5)
	mbc := Lerp2(b, c, 0.5)
	bisAB := Line2{mab, mab.Add(LineNormal(a, b))}
	bisBC := Line2{mbc, mbc.Add(LineNormal(b, c))}
	center, ok := IntersectLineLine(bisAB, bisBC, eps)
	if !ok {
		return Circle{}, false
	}
	return Circle{Center: center, Radius: center.Sub(a).Length()}, true
}

// Circumcircle3 returns the circle through three 3D points. The points
// are projected onto their own plane, solved in 2D, and lifted back;
// perpendicular-bisector math straight in 3D degenerates too easily.
func Circumcircle3(a, b, c v3.Vec, eps float64) (Circle3, bool) {
	pl, ok := PlaneFrom3Points(a, b, c, eps)
	if !ok {
		return Circle3{}, false
	}
	c2, ok := Circumcircle(pl.Project(a), pl.Project(b), pl.Project(c), eps)
	if !ok {
		return Circle3{}, false
	}
	return Circle3{Center: pl.Unproject(c2.Center), Radius: c2.Radius, Plane: pl}, true
}

// TangentPoints returns the points where lines through p touch the
// circle: none when p is inside, the single degenerate tangent when p
// is on the circle within eps, and two points otherwise, offset by
// acos(radius/distance) either side of the center-to-point bearing.
func TangentPoints(c Circle, p v2.Vec, eps float64) []v2.Vec {
	rel := p.Sub(c.Center)
	d := rel.Length()
	if d < c.Radius-eps {
		return nil
	}
	base := math.Atan2(rel.Y, rel.X)
	if d <= c.Radius+eps {
		return []v2.Vec{c.onCircle(base)}
	}
	ang := math.Acos(c.Radius / d)
	return []v2.Vec{c.onCircle(base + ang), c.onCircle(base - ang)}
}

// CommonTangents returns the tangent lines shared by two circles, each
// as the pair of touch points (first on a, then on b): up to two
// external and two internal tangents. Internal tangents are omitted
// when the circles overlap (center distance below the radius sum), and
// degenerate tangents exactly at a point of tangency are excluded.
func CommonTangents(a, b Circle, eps float64) []Line2 {
	rel := b.Center.Sub(a.Center)
	d := rel.Length()
	if d <= eps {
		return nil
	}
	base := math.Atan2(rel.Y, rel.X)

	var lines []Line2
	// External tangents: touch points on the same side of the center line.
	if cosv := (a.Radius - b.Radius) / d; math.Abs(cosv) < 1-eps {
		ang := math.Acos(cosv)
		for _, sign := range []float64{1, -1} {
			lines = append(lines, Line2{
				a.onCircle(base + sign*ang),
				b.onCircle(base + sign*ang),
			})
		}
	}
	// Internal tangents: touch points on opposite sides.
	if cosv := (a.Radius + b.Radius) / d; cosv < 1-eps {
		ang := math.Acos(cosv)
		for _, sign := range []float64{1, -1} {
			lines = append(lines, Line2{
				a.onCircle(base + sign*ang),
				b.onCircle(base + math.Pi + sign*ang),
			})
		}
	}
	return lines
}
