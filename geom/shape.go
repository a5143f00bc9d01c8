package geom

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// Vertex is a point in shape space.
type Vertex struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns the component-wise sum of v and o.
func (v Vertex) Add(o Vertex) Vertex { return Vertex{v.X + o.X, v.Y + o.Y} }

// Sub returns the component-wise difference of v and o.
func (v Vertex) Sub(o Vertex) Vertex { return Vertex{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"      yaml:"x"`
	Y      float64 `json:"y"      yaml:"y"`
	Width  float64 `json:"width"  yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Center returns the midpoint of r.
func (r Rect) Center() Vertex {
	return Vertex{r.X + r.Width/2, r.Y + r.Height/2}
}

// Clamp returns v moved to the nearest point inside r.
func (r Rect) Clamp(v Vertex) Vertex {
	return Vertex{
		X: math.Min(math.Max(v.X, r.X), r.X+r.Width),
		Y: math.Min(math.Max(v.Y, r.Y), r.Y+r.Height),
	}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Rect) String() string {
	return fmt.Sprintf("[%s, %s, %s, %s]",
		formatFloat(r.X), formatFloat(r.Y),
		formatFloat(r.Width), formatFloat(r.Height))
}

// Mode selects how triangle indices are generated from a vertex sequence.
type Mode int

const (
	// ModeTriangles groups every three consecutive vertices into a triangle.
	ModeTriangles Mode = iota
	// ModeStrip forms a triangle from each vertex and the two preceding it,
	// alternating winding so all triangles face the same way.
	ModeStrip
)

// ParseMode converts the numeric mode argument of a shape builder.
// 1 selects [ModeStrip]; every other value selects [ModeTriangles].
func ParseMode(f float64) Mode {
	if f == 1 {
		return ModeStrip
	}

	return ModeTriangles
}

func (m Mode) String() string {
	switch m {
	case ModeTriangles:
		return "triangles"

	case ModeStrip:
		return "strip"

	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Indices returns the triangle index list for n vertices laid out in mode m.
// Trailing vertices that cannot complete a triangle are ignored.
func (m Mode) Indices(n int) []int {
	if n < 3 {
		return []int{}
	}

	switch m {
	case ModeStrip:
		idx := make([]int, 0, 3*(n-2))
		for i := range n - 2 {
			if i%2 == 0 {
				idx = append(idx, i, i+1, i+2)
			} else {
				idx = append(idx, i+1, i, i+2)
			}
		}

		return idx

	default:
		idx := make([]int, 0, n-n%3)
		for i := 0; i+2 < n; i += 3 {
			idx = append(idx, i, i+1, i+2)
		}

		return idx
	}
}

// Shape is an indexed triangle mesh with a cached bounding box.
type Shape struct {
	Vertices []Vertex `json:"vertices" yaml:"vertices"`
	Indices  []int    `json:"indices"  yaml:"indices"`
	Extent   Rect     `json:"extent"   yaml:"extent"`
}

// New returns a shape over vs with indices generated by mode.
func New(vs []Vertex, mode Mode) *Shape {
	return NewIndexed(vs, mode.Indices(len(vs)))
}

// NewIndexed returns a shape over vs with an explicit index list.
func NewIndexed(vs []Vertex, idx []int) *Shape {
	s := &Shape{Vertices: vs, Indices: idx}
	s.Recompute()

	return s
}

// Recompute refreshes the cached extent from the current vertices.
func (s *Shape) Recompute() {
	if len(s.Vertices) == 0 {
		s.Extent = Rect{}

		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, v := range s.Vertices {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}

	s.Extent = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Clone returns a deep copy of s.
func (s *Shape) Clone() *Shape {
	if s == nil {
		return nil
	}

	c := &Shape{
		Vertices: make([]Vertex, len(s.Vertices)),
		Indices:  make([]int, len(s.Indices)),
		Extent:   s.Extent,
	}
	copy(c.Vertices, s.Vertices)
	copy(c.Indices, s.Indices)

	return c
}

// Equal reports whether s and o have identical vertices and indices.
func (s *Shape) Equal(o *Shape) bool {
	if s == nil || o == nil {
		return s == o
	}

	if len(s.Vertices) != len(o.Vertices) || len(s.Indices) != len(o.Indices) {
		return false
	}

	for i := range s.Vertices {
		if s.Vertices[i] != o.Vertices[i] {
			return false
		}
	}

	for i := range s.Indices {
		if s.Indices[i] != o.Indices[i] {
			return false
		}
	}

	return true
}

// Apply maps every vertex through fn and recomputes the extent.
func (s *Shape) Apply(fn func(Vertex) Vertex) *Shape {
	for i, v := range s.Vertices {
		s.Vertices[i] = fn(v)
	}

	s.Recompute()

	return s
}

// Translate moves every vertex by (dx, dy).
func (s *Shape) Translate(dx, dy float64) *Shape {
	return s.Apply(func(v Vertex) Vertex { return Vertex{v.X + dx, v.Y + dy} })
}

// Scale scales every vertex by (sx, sy) about origin.
func (s *Shape) Scale(sx, sy float64, origin Vertex) *Shape {
	return s.Apply(func(v Vertex) Vertex {
		return Vertex{
			X: origin.X + (v.X-origin.X)*sx,
			Y: origin.Y + (v.Y-origin.Y)*sy,
		}
	})
}

// Rotate rotates every vertex by rad radians about origin.
func (s *Shape) Rotate(rad float64, origin Vertex) *Shape {
	sin, cos := math.Sincos(rad)

	return s.Apply(func(v Vertex) Vertex {
		d := v.Sub(origin)

		return Vertex{
			X: origin.X + d.X*cos - d.Y*sin,
			Y: origin.Y + d.X*sin + d.Y*cos,
		}
	})
}

// Recenter translates s so the center of its extent lies at the origin.
func (s *Shape) Recenter() *Shape {
	s.Recompute()
	c := s.Extent.Center()

	return s.Translate(-c.X, -c.Y)
}

// Combine appends the geometry of o to s, offsetting o's indices.
func (s *Shape) Combine(o *Shape) *Shape {
	if o == nil {
		return s
	}

	off := len(s.Vertices)
	s.Vertices = append(s.Vertices, o.Vertices...)

	for _, i := range o.Indices {
		s.Indices = append(s.Indices, i+off)
	}

	s.Recompute()

	return s
}

// Clip clamps every vertex into r.
func (s *Shape) Clip(r Rect) *Shape {
	return s.Apply(r.Clamp)
}

// Remap returns a copy of s with its extent stretched onto r.
// A degenerate axis of the extent is placed at the start of r.
func (s *Shape) Remap(r Rect) *Shape {
	c := s.Clone()
	ext := s.Extent

	return c.Apply(func(v Vertex) Vertex {
		var out Vertex

		if ext.Width != 0 {
			out.X = r.X + (v.X-ext.X)/ext.Width*r.Width
		} else {
			out.X = r.X
		}

		if ext.Height != 0 {
			out.Y = r.Y + (v.Y-ext.Y)/ext.Height*r.Height
		} else {
			out.Y = r.Y
		}

		return out
	})
}

// Triangles returns an iterator over the triangles of s.
// Index triples referring to missing vertices are skipped.
func (s *Shape) Triangles() iter.Seq[[3]Vertex] {
	return func(yield func([3]Vertex) bool) {
		n := len(s.Vertices)

		for i := 0; i+2 < len(s.Indices); i += 3 {
			a, b, c := s.Indices[i], s.Indices[i+1], s.Indices[i+2]
			if a >= n || b >= n || c >= n {
				continue
			}

			if !yield([3]Vertex{s.Vertices[a], s.Vertices[b], s.Vertices[c]}) {
				return
			}
		}
	}
}

// String returns a compact summary of s.
func (s *Shape) String() string {
	if s == nil {
		return "shape(nil)"
	}

	var b strings.Builder

	b.WriteString("shape(")
	b.WriteString(strconv.Itoa(len(s.Vertices)))
	b.WriteString(" vertices, ")
	b.WriteString(strconv.Itoa(len(s.Indices) / 3))
	b.WriteString(" triangles, extent ")
	b.WriteString(s.Extent.String())
	b.WriteByte(')')

	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
