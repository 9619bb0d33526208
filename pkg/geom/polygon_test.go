package geom

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() Polygon2 {
	return Polygon2{{X: 0, Y: 0}, {X: 5, Y: 10}, {X: 10, Y: 0}}
}

func square10() Polygon2 {
	return Polygon2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
}

func TestSignedArea(t *testing.T) {
	assert.InDelta(t, -50, triangle().SignedArea(), 1e-12, "clockwise triangle")
	assert.InDelta(t, 50, triangle().Reverse().SignedArea(), 1e-12, "reversing negates the area")
	assert.InDelta(t, 100, square10().SignedArea(), 1e-12)
	assert.InDelta(t, 50, triangle().Area(), 1e-12)
}

func TestArea3(t *testing.T) {
	// The same square tilted onto the plane z = y keeps its 2D shape
	// scaled by sqrt 2 along one axis.
	tilted := Polygon3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 10, Y: 10, Z: 10},
		{X: 0, Y: 10, Z: 10},
	}
	assert.InDelta(t, 100*1.4142135623730951, tilted.Area(), 1e-9)
}

func TestIsConvex(t *testing.T) {
	assert.True(t, square10().IsConvex(Epsilon))
	assert.True(t, triangle().IsConvex(Epsilon))

	notch := Polygon2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 5, Y: 2}, {X: 0, Y: 10}}
	assert.False(t, notch.IsConvex(Epsilon))

	// A collinear vertex does not break convexity.
	withMid := Polygon2{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	assert.True(t, withMid.IsConvex(Epsilon))
}

func TestWinding(t *testing.T) {
	assert.False(t, square10().IsClockwise())
	assert.True(t, square10().Reverse().IsClockwise())
	assert.True(t, triangle().IsClockwise())

	cw := square10().Clockwise()
	assert.True(t, cw.IsClockwise())
	ccw := cw.CounterClockwise()
	assert.False(t, ccw.IsClockwise())
	assert.Equal(t, square10(), ccw.CounterClockwise(), "already normalized input is returned as is")
}

func TestNormal(t *testing.T) {
	flat := Polygon3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 10, Y: 10, Z: 0},
		{X: 0, Y: 10, Z: 0},
	}
	n, ok := flat.Normal()
	require.True(t, ok)
	assert.True(t, n.Equals(v3.Vec{Z: 1}, 1e-12), "CCW in the xy plane points +z")

	n, ok = flat.Reverse().Normal()
	require.True(t, ok)
	assert.True(t, n.Equals(v3.Vec{Z: -1}, 1e-12))

	_, ok = Polygon3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}.Normal()
	assert.False(t, ok, "collinear vertices")
}

func TestCentroid(t *testing.T) {
	c := square10().Centroid()
	assert.True(t, c.Equals(v2.Vec{X: 5, Y: 5}, 1e-12))

	// Winding does not move the centroid.
	c = square10().Reverse().Centroid()
	assert.True(t, c.Equals(v2.Vec{X: 5, Y: 5}, 1e-12))

	// Off-center L shape, computed by decomposition: a 10x5 rectangle
	// (centroid (5,2.5), area 50) plus a 5x5 square on top of the left
	// half (centroid (2.5,7.5), area 25).
	l := Polygon2{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 10},
	}
	c = l.Centroid()
	assert.InDelta(t, (5.0*50+2.5*25)/75, c.X, 1e-9)
	assert.InDelta(t, (2.5*50+7.5*25)/75, c.Y, 1e-9)
}

func TestCentroid3(t *testing.T) {
	tilted := Polygon3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 10, Y: 10, Z: 10},
		{X: 0, Y: 10, Z: 10},
	}
	c, ok := tilted.Centroid()
	require.True(t, ok)
	assert.True(t, c.Equals(v3.Vec{X: 5, Y: 5, Z: 5}, 1e-9), "got %v", c)

	_, ok = Polygon3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}.Centroid()
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	sq := square10()
	assert.Equal(t, Inside, sq.Contains(v2.Vec{X: 5, Y: 5}, Epsilon))
	assert.Equal(t, Outside, sq.Contains(v2.Vec{X: 15, Y: 5}, Epsilon))
	assert.Equal(t, OnBoundary, sq.Contains(v2.Vec{X: 10, Y: 5}, Epsilon))
	assert.Equal(t, OnBoundary, sq.Contains(v2.Vec{X: 0, Y: 0}, Epsilon), "vertex is boundary")
}

func TestContainsInvariance(t *testing.T) {
	sq := square10()
	inside := v2.Vec{X: 2, Y: 7}
	outside := v2.Vec{X: -2, Y: 7}
	boundary := v2.Vec{X: 0, Y: 7}

	for shift := 0; shift < len(sq); shift++ {
		p := rotate(sq, shift)
		assert.Equal(t, Inside, p.Contains(inside, Epsilon), "shift %d", shift)
		assert.Equal(t, Outside, p.Contains(outside, Epsilon), "shift %d", shift)
		assert.Equal(t, OnBoundary, p.Contains(boundary, Epsilon), "shift %d", shift)

		r := p.Reverse()
		assert.Equal(t, Inside, r.Contains(inside, Epsilon), "reversed shift %d", shift)
		assert.Equal(t, Outside, r.Contains(outside, Epsilon), "reversed shift %d", shift)
		assert.Equal(t, OnBoundary, r.Contains(boundary, Epsilon), "reversed shift %d", shift)
	}
}

func TestContainsSelfIntersecting(t *testing.T) {
	// Bowtie: both lobes count as inside under the winding-number rule.
	bowtie := Polygon2{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	assert.Equal(t, Inside, bowtie.Contains(v2.Vec{X: 2, Y: 5}, Epsilon))
	assert.Equal(t, Inside, bowtie.Contains(v2.Vec{X: 8, Y: 5}, Epsilon))
	assert.Equal(t, Outside, bowtie.Contains(v2.Vec{X: 5, Y: 8}, Epsilon))
}

func TestContainsSkipsZeroLengthEdges(t *testing.T) {
	sq := Polygon2{
		{X: 0, Y: 0}, {X: 0, Y: 0},
		{X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}
	assert.Equal(t, Inside, sq.Contains(v2.Vec{X: 5, Y: 5}, Epsilon))
	assert.Equal(t, Outside, sq.Contains(v2.Vec{X: 15, Y: 5}, Epsilon))
}

func TestReindexIdentity(t *testing.T) {
	sq := square10()
	got := Reindex(sq, sq)
	assert.Equal(t, sq, got, "identity reindex returns the polygon unchanged")
}

func TestReindexShifted(t *testing.T) {
	sq := square10()
	shifted := rotate(sq, 2)
	assert.Equal(t, sq, Reindex(sq, shifted))

	// Opposite winding is normalized to the reference's before shifting.
	assert.Equal(t, sq, Reindex(sq, rotate(sq.Reverse(), 1)))
}

func TestReindexMismatchedCounts(t *testing.T) {
	assert.Panics(t, func() { Reindex(square10(), triangle()) })
}

func TestReindex3(t *testing.T) {
	p := Polygon3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 1},
		{X: 10, Y: 10, Z: 2},
		{X: 0, Y: 10, Z: 3},
	}
	assert.Equal(t, p, Reindex3(p, rotate(p, 3)))
}

func TestAlign(t *testing.T) {
	sq := square10()
	// With the reference among the candidates (angle 0), the best score
	// is an exact match and the other angles lose.
	got := Align(sq, sq, []float64{0, 30, 45, 60, 90})
	require.Len(t, got, len(sq))
	for i := range sq {
		assert.True(t, got[i].Equals(sq[i], 1e-9), "vertex %d: got %v", i, got[i])
	}

	assert.Panics(t, func() { Align(sq, sq, nil) })
}
