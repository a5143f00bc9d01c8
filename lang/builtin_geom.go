package lang

import (
	"math"

	"github.com/ardnew/shapescript/geom"
)

// shapeFunc binds every named parameter to a number before calling fn.
func shapeFunc(name, doc string, fn func(v []float64) *geom.Shape, params ...string) *Builtin {
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = num(p)
	}

	return &Builtin{
		Name:   name,
		Doc:    doc,
		Params: ps,
		Call: func(a *Args) (Value, error) {
			vs := make([]float64, len(params))

			for i, p := range params {
				v, err := a.Number(p)
				if err != nil {
					return nil, err
				}

				vs[i] = v
			}

			return ShapeValue{Shape: fn(vs)}, nil
		},
	}
}

func arcBuiltin(name, doc string, radii ...string) *Builtin {
	params := []Param{num("cx"), num("cy")}
	for _, r := range radii {
		params = append(params, num(r))
	}

	params = append(params,
		optNum("offset_rad"), optNum("offset_deg"),
		optNum("range_rad"), optNum("range_deg"),
		num("tri_count"),
	)

	return &Builtin{
		Name:   name,
		Doc:    doc,
		Params: params,
		Call: func(a *Args) (Value, error) {
			cx, err := a.Number("cx")
			if err != nil {
				return nil, err
			}

			cy, err := a.Number("cy")
			if err != nil {
				return nil, err
			}

			rs := make([]float64, len(radii))
			for i, r := range radii {
				if rs[i], err = a.Number(r); err != nil {
					return nil, err
				}
			}

			offset, err := a.Angle("offset_rad", "offset_deg")
			if err != nil {
				return nil, err
			}

			rng, err := a.Angle("range_rad", "range_deg")
			if err != nil {
				return nil, err
			}

			n, err := a.Count("tri_count")
			if err != nil {
				return nil, err
			}

			rx, ry := rs[0], rs[len(rs)-1]

			return ShapeValue{Shape: geom.Arc(cx, cy, rx, ry, offset, rng, n)}, nil
		},
	}
}

func fanBuiltin(name, doc string, radii ...string) *Builtin {
	params := []Param{num("cx"), num("cy")}
	for _, r := range radii {
		params = append(params, num(r))
	}

	params = append(params, num("tri_count"))

	return &Builtin{
		Name:   name,
		Doc:    doc,
		Params: params,
		Call: func(a *Args) (Value, error) {
			vs := make([]float64, 0, 4)

			for _, p := range params[:len(params)-1] {
				v, err := a.Number(p.Name)
				if err != nil {
					return nil, err
				}

				vs = append(vs, v)
			}

			n, err := a.Count("tri_count")
			if err != nil {
				return nil, err
			}

			return ShapeValue{Shape: geom.Ellipse(vs[0], vs[1], vs[2], vs[len(vs)-1], n)}, nil
		},
	}
}

func geomBuiltins() []*Builtin {
	return []*Builtin{
		shapeFunc("rect0", "Rectangle from its top-left corner and size.",
			func(v []float64) *geom.Shape { return geom.Rectangle(v[0], v[1], v[2], v[3]) },
			"x", "y", "width", "height"),
		shapeFunc("rect1", "Rectangle between two corners.",
			func(v []float64) *geom.Shape { return geom.RectangleCorners(v[0], v[1], v[2], v[3]) },
			"x1", "y1", "x2", "y2"),
		shapeFunc("triangle0", "Triangle from three coordinate pairs.",
			func(v []float64) *geom.Shape {
				return geom.Triangle(
					geom.Vertex{X: v[0], Y: v[1]},
					geom.Vertex{X: v[2], Y: v[3]},
					geom.Vertex{X: v[4], Y: v[5]},
				)
			},
			"x1", "y1", "x2", "y2", "x3", "y3"),
		shapeFunc("void_rect0", "Rectangular border of the given thickness.",
			func(v []float64) *geom.Shape { return geom.VoidRectangle(v[0], v[1], v[2], v[3], v[4]) },
			"x", "y", "width", "height", "thickness"),

		arcBuiltin("arc0", "Circular sector as a triangle fan.", "radius"),
		arcBuiltin("arc1", "Elliptical sector as a triangle fan.", "radius_x", "radius_y"),
		fanBuiltin("circle0", "Circle as a triangle fan.", "radius"),
		fanBuiltin("ellipse0", "Ellipse as a triangle fan.", "radius_x", "radius_y"),

		{
			Name: "triangle1",
			Doc:  "Triangle from three points.",
			Params: []Param{
				{Name: "a", Type: TypeVec2},
				{Name: "b", Type: TypeVec2},
				{Name: "c", Type: TypeVec2},
			},
			Call: func(a *Args) (Value, error) {
				var vs [3]geom.Vertex

				for i, p := range []string{"a", "b", "c"} {
					v, err := a.Vec2(p)
					if err != nil {
						return nil, err
					}

					vs[i] = geom.Vertex{X: v.X, Y: v.Y}
				}

				return ShapeValue{Shape: geom.Triangle(vs[0], vs[1], vs[2])}, nil
			},
		},
		{
			Name: "transform",
			Doc: "Scales, rotates, then translates a copy of shape. " +
				"Scaling and rotation are about origin, which defaults to the shape's center.",
			Params: []Param{
				{Name: "shape", Type: TypeShape},
				optNum("translate_x"), optNum("translate_y"),
				optNum("scale_x"), optNum("scale_y"),
				optNum("rotate_rad"), optNum("rotate_deg"),
				optNum("origin_x"), optNum("origin_y"),
			},
			Call: transform,
		},
		{
			Name: "combine",
			Doc:  "Merges two shapes into one.",
			Params: []Param{
				{Name: "a", Type: TypeShape},
				{Name: "b", Type: TypeShape},
			},
			Call: func(a *Args) (Value, error) {
				s, err := a.Shape("a")
				if err != nil {
					return nil, err
				}

				o, err := a.Shape("b")
				if err != nil {
					return nil, err
				}

				return ShapeValue{Shape: s.Clone().Combine(o)}, nil
			},
		},
		{
			Name:   "recenter",
			Doc:    "Moves a copy of shape so its extent is centered on the origin.",
			Params: []Param{{Name: "shape", Type: TypeShape}},
			Call: func(a *Args) (Value, error) {
				s, err := a.Shape("shape")
				if err != nil {
					return nil, err
				}

				return ShapeValue{Shape: s.Clone().Recenter()}, nil
			},
		},
		{
			Name: "intersect",
			Doc:  "Clamps a copy of shape into the given rectangle.",
			Params: []Param{
				{Name: "shape", Type: TypeShape},
				num("x"), num("y"), num("width"), num("height"),
			},
			Call: func(a *Args) (Value, error) {
				s, err := a.Shape("shape")
				if err != nil {
					return nil, err
				}

				var r [4]float64

				for i, p := range []string{"x", "y", "width", "height"} {
					if r[i], err = a.Number(p); err != nil {
						return nil, err
					}
				}

				return ShapeValue{Shape: s.Clone().Clip(geom.Rect{X: r[0], Y: r[1], Width: r[2], Height: r[3]})}, nil
			},
		},
	}
}

func transform(a *Args) (Value, error) {
	src, err := a.Shape("shape")
	if err != nil {
		return nil, err
	}

	s := src.Clone()
	c := s.Extent.Center()

	var v [8]float64

	for i, p := range []struct {
		name string
		def  float64
	}{
		{"translate_x", 0}, {"translate_y", 0},
		{"scale_x", 1}, {"scale_y", 1},
		{"rotate_rad", math.NaN()}, {"rotate_deg", math.NaN()},
		{"origin_x", c.X}, {"origin_y", c.Y},
	} {
		if v[i], err = a.NumberOr(p.name, p.def); err != nil {
			return nil, err
		}
	}

	origin := geom.Vertex{X: v[6], Y: v[7]}

	s.Scale(v[2], v[3], origin)

	switch {
	case !math.IsNaN(v[4]):
		s.Rotate(v[4], origin)
	case !math.IsNaN(v[5]):
		s.Rotate(degToRad(v[5]), origin)
	}

	return ShapeValue{Shape: s.Translate(v[0], v[1])}, nil
}
