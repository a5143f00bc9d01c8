package lang

import (
	"io"
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/shapescript/geom"
)

// Builtin is a function provided by the runtime.
type Builtin struct {
	Call     func(*Args) (Value, error) `json:"-"                  yaml:"-"`
	Name     string                     `json:"name"               yaml:"name"`
	Doc      string                     `json:"doc"                yaml:"doc"`
	Params   []Param                    `json:"params"             yaml:"params"`
	Variadic bool                       `json:"variadic,omitempty" yaml:"variadic,omitempty"`
}

// Signature renders b as it would be called, e.g. "hypot[x: Number, y: Number]".
// Optional parameters are suffixed with "?".
func (b *Builtin) Signature() string { return signature(b.Name, b.Params, b.Variadic) }

func signature(name string, params []Param, variadic bool) string {
	var sb strings.Builder

	sb.WriteString(name)
	sb.WriteByte('[')

	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.Name)

		if p.Optional {
			sb.WriteByte('?')
		}

		sb.WriteString(": ")
		sb.WriteString(p.Type.Keyword())
	}

	if variadic {
		sb.WriteString("...")
	}

	sb.WriteByte(']')

	return sb.String()
}

func (b *Builtin) hasParam(name string) bool {
	return slices.ContainsFunc(b.Params, func(p Param) bool { return p.Name == name })
}

var builtins = sync.OnceValue(func() map[string]*Builtin {
	m := make(map[string]*Builtin)

	for _, set := range [][]*Builtin{coreBuiltins(), mathBuiltins(), geomBuiltins()} {
		for _, b := range set {
			m[b.Name] = b
		}
	}

	return m
})

// LookupBuiltin returns the built-in function named name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins()[name]

	return b, ok
}

// Builtins returns an iterator over all built-in functions sorted by name.
func Builtins() iter.Seq[*Builtin] {
	return func(yield func(*Builtin) bool) {
		m := builtins()
		for _, name := range slices.Sorted(maps.Keys(m)) {
			if !yield(m[name]) {
				return
			}
		}
	}
}

// BuiltinNames returns the sorted names of all built-in functions.
func BuiltinNames() []string { return slices.Sorted(maps.Keys(builtins())) }

// Args holds the evaluated arguments of a built-in call.
// An unnamed argument stands in for the first declared parameter.
type Args struct {
	values map[string]Value
	out    io.Writer
	verts  *[]geom.Vertex
	fn     string
	first  string
	order  []string
}

// Value returns the argument bound to name, or [Null] if absent.
func (a *Args) Value(name string) Value {
	if v, ok := a.values[name]; ok {
		return v
	}

	if name == a.first {
		if v, ok := a.values["_"]; ok {
			return v
		}
	}

	return Null{}
}

// Has reports whether a non-null argument is bound to name.
func (a *Args) Has(name string) bool { return !isNull(a.Value(name)) }

// Number returns the number bound to name.
func (a *Args) Number(name string) (float64, error) {
	switch v := a.Value(name).(type) {
	case Number:
		return float64(v), nil
	case Null:
		return 0, a.missing(name)
	default:
		return 0, a.mismatch(name, TypeNumber, v)
	}
}

// NumberOr returns the number bound to name, or def if absent.
func (a *Args) NumberOr(name string, def float64) (float64, error) {
	if !a.Has(name) {
		return def, nil
	}

	return a.Number(name)
}

// Bool returns the bool bound to name.
func (a *Args) Bool(name string) (bool, error) {
	switch v := a.Value(name).(type) {
	case Bool:
		return bool(v), nil
	case Null:
		return false, a.missing(name)
	default:
		return false, a.mismatch(name, TypeBool, v)
	}
}

// Vec2 returns the vector bound to name.
func (a *Args) Vec2(name string) (Vec2, error) {
	switch v := a.Value(name).(type) {
	case Vec2:
		return v, nil
	case Null:
		return Vec2{}, a.missing(name)
	default:
		return Vec2{}, a.mismatch(name, TypeVec2, v)
	}
}

// Shape returns the shape bound to name.
func (a *Args) Shape(name string) (*geom.Shape, error) {
	switch v := a.Value(name).(type) {
	case ShapeValue:
		return v.Shape, nil
	case Null:
		return nil, a.missing(name)
	default:
		return nil, a.mismatch(name, TypeShape, v)
	}
}

// Angle returns the angle in radians given by either the radian or the
// degree argument.
func (a *Args) Angle(rad, deg string) (float64, error) {
	if a.Has(rad) {
		return a.Number(rad)
	}

	if a.Has(deg) {
		d, err := a.Number(deg)

		return degToRad(d), err
	}

	return 0, ErrMissingArgument.Wrapf("%s: specify either '%s' or '%s'", a.fn, rad, deg)
}

// Count returns a positive slice count bound to name.
func (a *Args) Count(name string) (int, error) {
	n, err := a.Number(name)
	if err != nil {
		return 0, err
	}

	if n < 1 || n > maxTriangles {
		return 0, ErrArgument.Wrapf("%s: '%s' must be between 1 and %d, found %g",
			a.fn, name, maxTriangles, n)
	}

	return int(n), nil
}

const maxTriangles = 1 << 16

func (a *Args) missing(name string) error {
	return ErrMissingArgument.Wrapf("%s: missing argument '%s'", a.fn, name)
}

func (a *Args) mismatch(name string, want Type, got Value) error {
	return ErrArgument.Wrapf("%s: '%s' must be %s, found %s", a.fn, name, want, got.Type())
}

func num(name string) Param { return Param{Name: name, Type: TypeNumber} }

func optNum(name string) Param { return Param{Name: name, Type: TypeNumber, Optional: true} }

func coreBuiltins() []*Builtin {
	return []*Builtin{
		{
			Name:     "print",
			Doc:      "Writes its arguments in order. Named arguments print as 'name: value'.",
			Variadic: true,
			Call: func(a *Args) (Value, error) {
				parts := make([]string, 0, len(a.order))

				for _, k := range a.order {
					v := a.values[k]
					if k == "_" {
						parts = append(parts, v.String())
					} else {
						parts = append(parts, k+": "+v.String())
					}
				}

				_, err := io.WriteString(a.out, strings.Join(parts, ", ")+"\n")

				return Null{}, err
			},
		},
		{
			Name: "vertex",
			Doc:  "Appends a vertex to the enclosing shape definition.",
			Params: []Param{
				optNum("vertex_x"),
				optNum("vertex_y"),
			},
			Call: func(a *Args) (Value, error) {
				if a.verts == nil {
					return nil, ErrVertexOutsideShape.Wrapf("vertex[] must be called inside begin[]")
				}

				if v, ok := a.values["_"].(Vec2); ok {
					*a.verts = append(*a.verts, geom.Vertex{X: v.X, Y: v.Y})

					return Null{}, nil
				}

				x, err := a.Number("vertex_x")
				if err != nil {
					return nil, err
				}

				y, err := a.Number("vertex_y")
				if err != nil {
					return nil, err
				}

				*a.verts = append(*a.verts, geom.Vertex{X: x, Y: y})

				return Null{}, nil
			},
		},
	}
}
