package geom

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare3() Polygon3 {
	return Polygon3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 10, Y: 10, Z: 0},
		{X: 0, Y: 10, Z: 0},
	}
}

func TestSplitAtStraddling(t *testing.T) {
	parts := SplitAtX(unitSquare3(), 4)
	require.Len(t, parts, 2)

	var areas float64
	for _, p := range parts {
		areas += p.Area()
		for _, v := range p {
			assert.True(t, v.X <= 4+Epsilon || v.X >= 4-Epsilon)
		}
	}
	assert.InDelta(t, 100, areas, 1e-9, "split preserves total area")

	// The inserted crossing vertices carry the cut coordinate exactly,
	// so fragments from both sides share identical seam vertices.
	for _, p := range parts {
		onCut := 0
		for _, v := range p {
			if v.X == 4 {
				onCut++
			}
		}
		assert.Equal(t, 2, onCut, "each fragment has exactly two seam vertices")
	}
}

func TestSplitAtNoCrossing(t *testing.T) {
	sq := unitSquare3()

	parts := SplitAtX(sq, 20)
	require.Len(t, parts, 1, "polygon entirely below the cut")
	assert.Equal(t, sq, parts[0])

	parts = SplitAtX(sq, -5)
	require.Len(t, parts, 1, "polygon entirely above the cut")
	assert.Equal(t, sq, parts[0])
}

func TestSplitAtThroughVertex(t *testing.T) {
	// Diamond cut through two opposite vertices: no interpolation needed,
	// the shared vertices land in both fragments.
	diamond := Polygon3{
		{X: 0, Y: -5, Z: 0},
		{X: 5, Y: 0, Z: 0},
		{X: 0, Y: 5, Z: 0},
		{X: -5, Y: 0, Z: 0},
	}
	parts := SplitAtX(diamond, 0)
	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.InDelta(t, 25, p.Area(), 1e-9)
	}
}

func TestSplitAtGrazingEdge(t *testing.T) {
	// Cut along an edge of the square: one real fragment; the sliver on
	// the cut plane degenerates and is discarded.
	parts := SplitAtY(unitSquare3(), 0)
	require.Len(t, parts, 1)
	assert.InDelta(t, 100, parts[0].Area(), 1e-9)
}

func TestSplitAtOtherAxes(t *testing.T) {
	// Vertical wall in the xz plane, split along z.
	wall := Polygon3{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 10},
		{X: 0, Y: 0, Z: 10},
	}
	parts := SplitAtZ(wall, 3)
	require.Len(t, parts, 2)
	var areas float64
	for _, p := range parts {
		areas += p.Area()
	}
	assert.InDelta(t, 100, areas, 1e-9)

	parts = SplitAtY(wall, 0)
	require.Len(t, parts, 1, "coplanar cut leaves the wall intact")
}

func TestSplitPolygons(t *testing.T) {
	parts := SplitPolygons([]Polygon3{unitSquare3()}, AxisX, []float64{3, 7})
	require.Len(t, parts, 3, "two cuts make three strips")
	var areas float64
	for _, p := range parts {
		areas += p.Area()
	}
	assert.InDelta(t, 100, areas, 1e-9)

	// Crossing cuts on both axes tile the square into a grid.
	grid := SplitPolygons(parts, AxisY, []float64{5})
	require.Len(t, grid, 6)
	areas = 0
	for _, p := range grid {
		areas += p.Area()
	}
	assert.InDelta(t, 100, areas, 1e-9)
}

func TestSplitAtDegenerateInput(t *testing.T) {
	assert.Nil(t, SplitAt(Polygon3{{X: 0}, {X: 1}}, AxisX, 0.5))
	assert.Nil(t, SplitAt(nil, AxisX, 0))
}

func TestSplitSeamSharedExactly(t *testing.T) {
	parts := SplitAtX(unitSquare3(), 6.283185307179586)
	require.Len(t, parts, 2)
	var seamA, seamB []v3.Vec
	for _, v := range parts[0] {
		if v.X == 6.283185307179586 {
			seamA = append(seamA, v)
		}
	}
	for _, v := range parts[1] {
		if v.X == 6.283185307179586 {
			seamB = append(seamB, v)
		}
	}
	require.Len(t, seamA, 2)
	require.Len(t, seamB, 2)
	assert.ElementsMatch(t, seamA, seamB, "seam vertices are bit-identical across fragments")
}
