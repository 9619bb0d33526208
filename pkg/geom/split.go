package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Axis selects a coordinate axis for plane-based polygon splitting.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func component(v v3.Vec, a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	}
	return v.Z
}

func withComponent(v v3.Vec, a Axis, c float64) v3.Vec {
	switch a {
	case AxisX:
		v.X = c
	case AxisY:
		v.Y = c
	default:
		v.Z = c
	}
	return v
}

// crossingAt linearly interpolates the point where the edge from a to b
// meets the axis plane at cut. The cut coordinate is forced to exactly
// cut so fragments from both sides compare equal later.
func crossingAt(a, b v3.Vec, axis Axis, cut float64) v3.Vec {
	ca, cb := component(a, axis), component(b, axis)
	t := (cut - ca) / (cb - ca)
	return withComponent(Lerp3(a, b, t), axis, cut)
}

// dropDegenerate removes consecutive duplicate vertices (closing edge
// included) and discards fragments left with fewer than 3 vertices.
func dropDegenerate(poly Polygon3) Polygon3 {
	var out Polygon3
	for _, v := range poly {
		if len(out) > 0 && v.Equals(out[len(out)-1], Epsilon) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].Equals(out[len(out)-1], Epsilon) {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// SplitAt splits a polygon against the axis-aligned plane axis = cut.
// Edges crossing the plane get an interpolated vertex inserted exactly
// on the cut; the walk then partitions vertices into an at-or-below and
// an at-or-above polygon. Fragments with fewer than 3 vertices are
// discarded, so a polygon entirely on one side comes back unchanged as
// the only element.
func SplitAt(poly Polygon3, axis Axis, cut float64) []Polygon3 {
	n := len(poly)
	if n < 3 {
		return nil
	}

	// A polygon lying entirely in the cut plane would land whole in both
	// partitions, so return it once.
	onPlane := true
	for _, v := range poly {
		if component(v, axis) != cut {
			onPlane = false
			break
		}
	}
	if onPlane {
		return []Polygon3{poly}
	}

	var below, above Polygon3
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		ca, cb := component(a, axis), component(b, axis)
		if ca <= cut {
			below = append(below, a)
		}
		if ca >= cut {
			above = append(above, a)
		}
		if (ca < cut && cb > cut) || (ca > cut && cb < cut) {
			x := crossingAt(a, b, axis, cut)
			below = append(below, x)
			above = append(above, x)
		}
	}

	var out []Polygon3
	if p := dropDegenerate(below); p != nil {
		out = append(out, p)
	}
	if p := dropDegenerate(above); p != nil {
		out = append(out, p)
	}
	return out
}

// SplitAtX splits against the plane x = cut.
func SplitAtX(poly Polygon3, cut float64) []Polygon3 { return SplitAt(poly, AxisX, cut) }

// SplitAtY splits against the plane y = cut.
func SplitAtY(poly Polygon3, cut float64) []Polygon3 { return SplitAt(poly, AxisY, cut) }

// SplitAtZ splits against the plane z = cut.
func SplitAtZ(poly Polygon3, cut float64) []Polygon3 { return SplitAt(poly, AxisZ, cut) }

// SplitPolygons applies SplitAt across a list of cut values, feeding
// each round's fragments into the next cut. Chaining calls on repeated
// axes clips polygon arrangements to an orthogonal grid.
func SplitPolygons(polys []Polygon3, axis Axis, cuts []float64) []Polygon3 {
	out := polys
	for _, cut := range cuts {
		var next []Polygon3
		for _, p := range out {
			next = append(next, SplitAt(p, axis, cut)...)
		}
		out = next
	}
	return out
}
