// Package geom is the computational-geometry kernel for Tenon.
// It provides the predicates, intersection routines, and polygon
// analyses that shape-construction code needs: line/ray/segment
// intersection, plane algebra, circle tangency, right-triangle
// solving, and polygon analysis. Every operation is a pure function
// over immutable values.
package geom
