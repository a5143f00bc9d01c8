package lang

import (
	"strconv"

	"github.com/ardnew/shapescript/geom"
)

// Type is the runtime type of a [Value].
type Type int

// Value types. Only Number, Bool, Vec2, and Shape can be named in source.
const (
	TypeNull Type = iota
	TypeNumber
	TypeBool
	TypeVec2
	TypeShape
	TypeRef
)

var typeName = [...][2]string{
	TypeNull:   {"null", "Null"},
	TypeNumber: {"number", "Number"},
	TypeBool:   {"bool", "Bool"},
	TypeVec2:   {"vec2", "Vec2"},
	TypeShape:  {"shape", "Shape"},
	TypeRef:    {"reference", "Reference"},
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeName) {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}

	return typeName[t][0]
}

// Keyword returns the source spelling of t, as used in declarations.
func (t Type) Keyword() string {
	if t < 0 || int(t) >= len(typeName) {
		return t.String()
	}

	return typeName[t][1]
}

// MarshalText encodes t by its source spelling.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.Keyword()), nil }

func typeOfKeyword(k Keyword) (Type, bool) {
	switch k {
	case KeywordNumber:
		return TypeNumber, true
	case KeywordBool:
		return TypeBool, true
	case KeywordVec2:
		return TypeVec2, true
	case KeywordShape:
		return TypeShape, true
	default:
		return TypeNull, false
	}
}

// Value is a runtime value.
type Value interface {
	Type() Type
	String() string
}

type (
	// Null is the absent value.
	Null struct{}

	// Number is a 64-bit float.
	Number float64

	// Bool is true or false.
	Bool bool

	// Vec2 is a 2D vector with fields x and y.
	Vec2 struct {
		X, Y float64
	}

	// ShapeValue holds a shape. Shapes are shared by reference; operations
	// that modify geometry work on a clone.
	ShapeValue struct {
		Shape *geom.Shape
	}

	// Ref is an unresolved reference to a variable, optionally followed
	// by a path of field names. It is produced while evaluating the left
	// side of an assignment or member access.
	Ref struct {
		Path []string
		Sym  Symbol
	}
)

func (Null) Type() Type       { return TypeNull }
func (Number) Type() Type     { return TypeNumber }
func (Bool) Type() Type       { return TypeBool }
func (Vec2) Type() Type       { return TypeVec2 }
func (ShapeValue) Type() Type { return TypeShape }
func (Ref) Type() Type        { return TypeRef }

func (Null) String() string { return "null" }

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (v Vec2) String() string {
	return "[" + Number(v.X).String() + ", " + Number(v.Y).String() + "]"
}

func (s ShapeValue) String() string {
	if s.Shape == nil {
		return "shape[]"
	}

	return s.Shape.String()
}

func (r Ref) String() string {
	s := "$" + strconv.Itoa(int(r.Sym))
	for _, p := range r.Path {
		s += "." + p
	}

	return s
}

// Native converts v to a plain Go value for encoding: float64, bool,
// [2]float64, *geom.Shape, or nil.
func Native(v Value) any {
	switch v := v.(type) {
	case Number:
		return float64(v)
	case Bool:
		return bool(v)
	case Vec2:
		return [2]float64{v.X, v.Y}
	case ShapeValue:
		return v.Shape
	default:
		return nil
	}
}

func isNull(v Value) bool {
	_, ok := v.(Null)

	return v == nil || ok
}
