package geom

import "math"

// Rectangle returns a two-triangle strip covering (x, y, w, h).
func Rectangle(x, y, w, h float64) *Shape {
	return New([]Vertex{
		{x, y},
		{x, y + h},
		{x + w, y},
		{x + w, y + h},
	}, ModeStrip)
}

// RectangleCorners returns a two-triangle strip spanning corners
// (x1, y1) and (x2, y2).
func RectangleCorners(x1, y1, x2, y2 float64) *Shape {
	return Rectangle(x1, y1, x2-x1, y2-y1)
}

// Triangle returns a single triangle.
func Triangle(a, b, c Vertex) *Shape {
	return New([]Vertex{a, b, c}, ModeTriangles)
}

// Arc returns a triangle fan centered at (cx, cy) with radii (rx, ry),
// starting at angle offset and sweeping rng radians in n slices.
func Arc(cx, cy, rx, ry, offset, rng float64, n int) *Shape {
	if n < 1 {
		n = 1
	}

	vs := make([]Vertex, 0, n+2)
	vs = append(vs, Vertex{cx, cy})

	step := rng / float64(n)
	for i := range n + 1 {
		sin, cos := math.Sincos(offset + float64(i)*step)
		vs = append(vs, Vertex{cx + cos*rx, cy + sin*ry})
	}

	idx := make([]int, 0, 3*n)
	for i := 1; i <= n; i++ {
		idx = append(idx, 0, i, i+1)
	}

	return NewIndexed(vs, idx)
}

// Ellipse returns a closed fan of n slices.
func Ellipse(cx, cy, rx, ry float64, n int) *Shape {
	return Arc(cx, cy, rx, ry, 0, 2*math.Pi, n)
}

// Circle returns a closed fan of n slices.
func Circle(cx, cy, r float64, n int) *Shape {
	return Ellipse(cx, cy, r, r, n)
}

// VoidRectangle returns the border of (x, y, w, h) with the given thickness,
// built from four rectangles.
func VoidRectangle(x, y, w, h, t float64) *Shape {
	s := Rectangle(x, y, t, h)
	s.Combine(Rectangle(x+t, y, w-2*t, t))
	s.Combine(Rectangle(x+t, y+h-t, w-2*t, t))
	s.Combine(Rectangle(x+w-t, y, t, h))

	return s
}
