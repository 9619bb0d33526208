package engine

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/tenon/pkg/geom"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Tenon Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: line-intersect -> line_intersect
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing geometry values through the environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a 2D point.
type sexpVec2 struct {
	v v2.Vec
}

func (s *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", s.v.X, s.v.Y)
}
func (s *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a 3D point.
type sexpVec3 struct {
	v v3.Vec
}

func (s *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", s.v.X, s.v.Y, s.v.Z)
}
func (s *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpPoly2 wraps a 2D polygon.
type sexpPoly2 struct {
	p geom.Polygon2
}

func (s *sexpPoly2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(polygon2 %d-gon)", len(s.p))
}
func (s *sexpPoly2) Type() *zygo.RegisteredType { return nil }

// sexpPoly3 wraps a 3D polygon.
type sexpPoly3 struct {
	p geom.Polygon3
}

func (s *sexpPoly3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(polygon3 %d-gon)", len(s.p))
}
func (s *sexpPoly3) Type() *zygo.RegisteredType { return nil }

// sexpCircle wraps a circle.
type sexpCircle struct {
	c geom.Circle
}

func (s *sexpCircle) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(circle :center (vec2 %g %g) :r %g)", s.c.Center.X, s.c.Center.Y, s.c.Radius)
}
func (s *sexpCircle) Type() *zygo.RegisteredType { return nil }

// sexpTriangle wraps a solved right triangle.
type sexpTriangle struct {
	t geom.RightTriangle
}

func (s *sexpTriangle) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(right-triangle :adjacent %g :opposite %g :hypotenuse %g)",
		s.t.Adjacent, s.t.Opposite, s.t.Hypotenuse)
}
func (s *sexpTriangle) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toAxis converts a keyword or string to a geom.Axis.
func toAxis(s zygo.Sexp) (geom.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch name {
	case "x":
		return geom.AxisX, nil
	case "y":
		return geom.AxisY, nil
	case "z":
		return geom.AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// toBound converts a keyword or string to a geom.Bound.
func toBound(s zygo.Sexp) (geom.Bound, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected bound keyword (:line, :ray, :segment): %w", err)
	}
	switch name {
	case "line":
		return geom.BoundLine, nil
	case "ray":
		return geom.BoundRay, nil
	case "segment":
		return geom.BoundSegment, nil
	}
	return 0, fmt.Errorf("invalid bound %q, expected line, ray, or segment", name)
}

// toVec2 extracts a 2D point from a sexpVec2.
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.v, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a 3D point from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.v, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toPoly2 extracts a 2D polygon from a sexpPoly2.
func toPoly2(s zygo.Sexp) (geom.Polygon2, error) {
	if p, ok := s.(*sexpPoly2); ok {
		return p.p, nil
	}
	return nil, fmt.Errorf("expected 2D polygon, got %T (%s)", s, s.SexpString(nil))
}

// toPoly3 extracts a 3D polygon from a sexpPoly3.
func toPoly3(s zygo.Sexp) (geom.Polygon3, error) {
	if p, ok := s.(*sexpPoly3); ok {
		return p.p, nil
	}
	return nil, fmt.Errorf("expected 3D polygon, got %T (%s)", s, s.SexpString(nil))
}

// toCircle extracts a circle from a sexpCircle.
func toCircle(s zygo.Sexp) (geom.Circle, error) {
	if c, ok := s.(*sexpCircle); ok {
		return c.c, nil
	}
	return geom.Circle{}, fmt.Errorf("expected circle, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// guard runs f and converts a panic from the geometry kernel into an
// evaluation error, so a bad argument fails the script instead of the
// whole engine.
func guard(f func() (zygo.Sexp, error)) (s zygo.Sexp, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = zygo.SexpNull, fmt.Errorf("%v", r)
		}
	}()
	return f()
}

func vec2Array(pts []v2.Vec) *zygo.SexpArray {
	out := make([]zygo.Sexp, len(pts))
	for i, p := range pts {
		out[i] = &sexpVec2{v: p}
	}
	return &zygo.SexpArray{Val: out}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the geometry builtins into a zygomys
// environment. All builtins are pure: they take geometry values and
// return new ones, with no state held between calls.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp) {

	// -----------------------------------------------------------------------
	// (vec2 3 4)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{v: v2.Vec{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{v: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon (vec2 0 0) (vec2 10 0) (vec2 10 10))
	// Accepts vec2 or vec3 vertices (not mixed), either as direct
	// arguments or as a single list.
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		verts := args
		if len(args) == 1 {
			if items, err := sexpListToSlice(args[0]); err == nil {
				verts = items
			}
		}
		if len(verts) < 3 {
			return zygo.SexpNull, fmt.Errorf("polygon requires at least 3 vertices, got %d", len(verts))
		}
		switch verts[0].(type) {
		case *sexpVec2:
			p := make(geom.Polygon2, len(verts))
			for i, s := range verts {
				pt, err := toVec2(s)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: %w", i, err)
				}
				p[i] = pt
			}
			return &sexpPoly2{p: p}, nil
		case *sexpVec3:
			p := make(geom.Polygon3, len(verts))
			for i, s := range verts {
				pt, err := toVec3(s)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: %w", i, err)
				}
				p[i] = pt
			}
			return &sexpPoly3{p: p}, nil
		}
		return zygo.SexpNull, fmt.Errorf("polygon: vertex 0: expected vec2 or vec3, got %T", verts[0])
	})

	// -----------------------------------------------------------------------
	// (area poly) - unsigned; (signed-area poly) - 2D only
	// -----------------------------------------------------------------------
	env.AddFunction("area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("area requires a polygon argument")
		}
		switch p := args[0].(type) {
		case *sexpPoly2:
			return &zygo.SexpFloat{Val: p.p.Area()}, nil
		case *sexpPoly3:
			return &zygo.SexpFloat{Val: p.p.Area()}, nil
		}
		return zygo.SexpNull, fmt.Errorf("area: expected polygon, got %T", args[0])
	})

	env.AddFunction("signed_area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("signed-area requires a polygon argument")
		}
		p, err := toPoly2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("signed-area: %w", err)
		}
		return &zygo.SexpFloat{Val: p.SignedArea()}, nil
	})

	// -----------------------------------------------------------------------
	// (centroid poly) -> vec2 or vec3
	// -----------------------------------------------------------------------
	env.AddFunction("centroid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("centroid requires a polygon argument")
		}
		switch p := args[0].(type) {
		case *sexpPoly2:
			return &sexpVec2{v: p.p.Centroid()}, nil
		case *sexpPoly3:
			c, ok := p.p.Centroid()
			if !ok {
				return zygo.SexpNull, fmt.Errorf("centroid: degenerate polygon")
			}
			return &sexpVec3{v: c}, nil
		}
		return zygo.SexpNull, fmt.Errorf("centroid: expected polygon, got %T", args[0])
	})

	// -----------------------------------------------------------------------
	// (clockwise poly), (convex poly) -> bool
	// -----------------------------------------------------------------------
	env.AddFunction("clockwise", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("clockwise requires a polygon argument")
		}
		p, err := toPoly2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clockwise: %w", err)
		}
		return &zygo.SexpBool{Val: p.IsClockwise()}, nil
	})

	env.AddFunction("convex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("convex requires a polygon argument")
		}
		p, err := toPoly2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("convex: %w", err)
		}
		return &zygo.SexpBool{Val: p.IsConvex(geom.Epsilon)}, nil
	})

	// -----------------------------------------------------------------------
	// (inside poly (vec2 5 5)) -> bool; boundary counts as inside
	// -----------------------------------------------------------------------
	env.AddFunction("inside", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("inside requires a polygon and a point")
		}
		p, err := toPoly2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inside: %w", err)
		}
		pt, err := toVec2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inside: point: %w", err)
		}
		return &zygo.SexpBool{Val: p.Contains(pt, geom.Epsilon) != geom.Outside}, nil
	})

	// -----------------------------------------------------------------------
	// (normal poly3) -> vec3
	// -----------------------------------------------------------------------
	env.AddFunction("normal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("normal requires a 3D polygon argument")
		}
		p, err := toPoly3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("normal: %w", err)
		}
		n, ok := p.Normal()
		if !ok {
			return zygo.SexpNull, fmt.Errorf("normal: degenerate polygon")
		}
		return &sexpVec3{v: n}, nil
	})

	// -----------------------------------------------------------------------
	// (line-intersect a1 a2 b1 b2 :bound-a :segment :bound-b :ray)
	// Bounds default to :line. Returns a vec2, or nil when the loci miss.
	// -----------------------------------------------------------------------
	env.AddFunction("line_intersect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 4 {
			return zygo.SexpNull, fmt.Errorf("line-intersect requires 4 points, got %d", len(pa.positional))
		}
		var pts [4]v2.Vec
		for i, s := range pa.positional {
			pt, err := toVec2(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line-intersect: point %d: %w", i, err)
			}
			pts[i] = pt
		}
		boundA, boundB := geom.BoundLine, geom.BoundLine
		if v, ok := pa.kw["bound-a"]; ok {
			b, err := toBound(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line-intersect: bound-a: %w", err)
			}
			boundA = b
		}
		if v, ok := pa.kw["bound-b"]; ok {
			b, err := toBound(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line-intersect: bound-b: %w", err)
			}
			boundB = b
		}
		p, ok := geom.Intersect(geom.Line2{pts[0], pts[1]}, geom.Line2{pts[2], pts[3]},
			boundA, boundB, geom.Epsilon)
		if !ok {
			return zygo.SexpNull, nil
		}
		return &sexpVec2{v: p}, nil
	})

	// -----------------------------------------------------------------------
	// (distance-to-line pt a b) -> float
	// -----------------------------------------------------------------------
	env.AddFunction("distance_to_line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("distance-to-line requires a point and two line points")
		}
		pt, err := toVec2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance-to-line: point: %w", err)
		}
		a, err := toVec2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance-to-line: line start: %w", err)
		}
		b, err := toVec2(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance-to-line: line end: %w", err)
		}
		return &zygo.SexpFloat{Val: geom.DistanceToLine(geom.Line2{a, b}, pt)}, nil
	})

	// -----------------------------------------------------------------------
	// (circle :center (vec2 0 0) :r 5) or :d 10; exactly one of :r/:d
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c := geom.Circle{}
		if v, ok := pa.kw["center"]; ok {
			pt, err := toVec2(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
			}
			c.Center = pt
		}
		rv, hasR := pa.kw["r"]
		dv, hasD := pa.kw["d"]
		switch {
		case hasR && hasD:
			return zygo.SexpNull, fmt.Errorf("circle: give :r or :d, not both")
		case hasR:
			r, err := toFloat64(rv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: r: %w", err)
			}
			c.Radius = r
		case hasD:
			d, err := toFloat64(dv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: d: %w", err)
			}
			c.Radius = d / 2
		default:
			return zygo.SexpNull, fmt.Errorf("circle: needs :r or :d")
		}
		if c.Radius <= 0 {
			return zygo.SexpNull, fmt.Errorf("circle: radius must be positive, got %g", c.Radius)
		}
		return &sexpCircle{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (radius circ), (center circ)
	// -----------------------------------------------------------------------
	env.AddFunction("radius", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("radius requires a circle argument")
		}
		c, err := toCircle(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("radius: %w", err)
		}
		return &zygo.SexpFloat{Val: c.Radius}, nil
	})

	env.AddFunction("center", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("center requires a circle argument")
		}
		c, err := toCircle(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("center: %w", err)
		}
		return &sexpVec2{v: c.Center}, nil
	})

	// -----------------------------------------------------------------------
	// (tangent-circle :corner (vec2 0 0) :p1 (vec2 10 0) :p2 (vec2 0 10) :r 1)
	// Circle of radius r tangent to both rays out of the corner.
	// -----------------------------------------------------------------------
	env.AddFunction("tangent_circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		need := func(key string) (v2.Vec, error) {
			v, ok := pa.kw[key]
			if !ok {
				return v2.Vec{}, fmt.Errorf("tangent-circle: missing :%s", key)
			}
			return toVec2(v)
		}
		corner, err := need("corner")
		if err != nil {
			return zygo.SexpNull, err
		}
		p1, err := need("p1")
		if err != nil {
			return zygo.SexpNull, err
		}
		p2, err := need("p2")
		if err != nil {
			return zygo.SexpNull, err
		}
		rv, ok := pa.kw["r"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("tangent-circle: missing :r")
		}
		r, err := toFloat64(rv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tangent-circle: r: %w", err)
		}
		return guard(func() (zygo.Sexp, error) {
			tc, ok := geom.TangentToRays(corner, p1, p2, r, geom.Epsilon)
			if !ok {
				return zygo.SexpNull, nil
			}
			return &sexpCircle{c: tc.Circle}, nil
		})
	})

	// -----------------------------------------------------------------------
	// (circumcircle a b c) -> circle through three points, or nil
	// -----------------------------------------------------------------------
	env.AddFunction("circumcircle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("circumcircle requires 3 points, got %d", len(args))
		}
		var pts [3]v2.Vec
		for i, s := range args {
			pt, err := toVec2(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circumcircle: point %d: %w", i, err)
			}
			pts[i] = pt
		}
		c, ok := geom.Circumcircle(pts[0], pts[1], pts[2], geom.Epsilon)
		if !ok {
			return zygo.SexpNull, nil
		}
		return &sexpCircle{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (tangent-points circ (vec2 10 0)) -> array of vec2
	// -----------------------------------------------------------------------
	env.AddFunction("tangent_points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("tangent-points requires a circle and a point")
		}
		c, err := toCircle(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tangent-points: %w", err)
		}
		pt, err := toVec2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tangent-points: point: %w", err)
		}
		return vec2Array(geom.TangentPoints(c, pt, geom.Epsilon)), nil
	})

	// -----------------------------------------------------------------------
	// (right-triangle :adjacent 4 :opposite 3) -> solved triangle
	// Exactly two of :angle :other-angle :adjacent :opposite :hypotenuse.
	// -----------------------------------------------------------------------
	env.AddFunction("right_triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		get := func(key string) (float64, error) {
			v, ok := pa.kw[key]
			if !ok {
				return geom.Unknown, nil
			}
			return toFloat64(v)
		}
		angle, err := get("angle")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("right-triangle: angle: %w", err)
		}
		other, err := get("other-angle")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("right-triangle: other-angle: %w", err)
		}
		adj, err := get("adjacent")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("right-triangle: adjacent: %w", err)
		}
		opp, err := get("opposite")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("right-triangle: opposite: %w", err)
		}
		hyp, err := get("hypotenuse")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("right-triangle: hypotenuse: %w", err)
		}
		return guard(func() (zygo.Sexp, error) {
			tri := geom.SolveRightTriangle(angle, other, adj, opp, hyp)
			return &sexpTriangle{t: tri}, nil
		})
	})

	// -----------------------------------------------------------------------
	// (side tri :hypotenuse) -> float accessor for a solved triangle
	// -----------------------------------------------------------------------
	env.AddFunction("side", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("side requires a triangle and a field keyword")
		}
		tri, ok := args[0].(*sexpTriangle)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("side: expected triangle, got %T", args[0])
		}
		field, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("side: %w", err)
		}
		switch field {
		case "angle":
			return &zygo.SexpFloat{Val: tri.t.Angle}, nil
		case "other-angle":
			return &zygo.SexpFloat{Val: tri.t.OtherAngle}, nil
		case "adjacent":
			return &zygo.SexpFloat{Val: tri.t.Adjacent}, nil
		case "opposite":
			return &zygo.SexpFloat{Val: tri.t.Opposite}, nil
		case "hypotenuse":
			return &zygo.SexpFloat{Val: tri.t.Hypotenuse}, nil
		}
		return zygo.SexpNull, fmt.Errorf("side: unknown field %q", field)
	})

	// -----------------------------------------------------------------------
	// (reindex reference poly) -> poly rotated to best match reference
	// -----------------------------------------------------------------------
	env.AddFunction("reindex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("reindex requires a reference and a polygon")
		}
		ref, err := toPoly2(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("reindex: reference: %w", err)
		}
		p, err := toPoly2(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("reindex: polygon: %w", err)
		}
		return guard(func() (zygo.Sexp, error) {
			return &sexpPoly2{p: geom.Reindex(ref, p)}, nil
		})
	})

	// -----------------------------------------------------------------------
	// (split-at poly3 :axis :x :at 5) -> array of polygon fragments
	// -----------------------------------------------------------------------
	env.AddFunction("split_at", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("split-at requires a 3D polygon")
		}
		p, err := toPoly3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-at: %w", err)
		}
		av, ok := pa.kw["axis"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("split-at: missing :axis")
		}
		axis, err := toAxis(av)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-at: axis: %w", err)
		}
		cv, ok := pa.kw["at"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("split-at: missing :at")
		}
		cut, err := toFloat64(cv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-at: at: %w", err)
		}
		parts := geom.SplitAt(p, axis, cut)
		out := make([]zygo.Sexp, len(parts))
		for i, frag := range parts {
			out[i] = &sexpPoly3{p: frag}
		}
		return &zygo.SexpArray{Val: out}, nil
	})
}
