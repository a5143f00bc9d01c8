package lang

import "math"

// Binary applies the infix operator op to resolved operands.
// Numbers broadcast against vectors component-wise. Shapes support no
// operators.
func Binary(op Operator, l, r Value) (Value, error) {
	if isNull(l) || isNull(r) {
		return nil, ErrNullValue.Wrapf("cannot apply '%s' because value is null", op)
	}

	switch l := l.(type) {
	case Number:
		switch r := r.(type) {
		case Number:
			if v, ok := numberOp(op, float64(l), float64(r)); ok {
				return v, nil
			}
		case Vec2:
			if f, ok := arith(op); ok {
				return Vec2{f(float64(l), r.X), f(float64(l), r.Y)}, nil
			}
		}

	case Bool:
		if r, ok := r.(Bool); ok {
			switch op {
			case OpAnd:
				return l && r, nil
			case OpOr:
				return l || r, nil
			case OpEq:
				return Bool(l == r), nil
			case OpNeq:
				return Bool(l != r), nil
			}
		}

	case Vec2:
		switch r := r.(type) {
		case Number:
			if f, ok := arith(op); ok {
				return Vec2{f(l.X, float64(r)), f(l.Y, float64(r))}, nil
			}
		case Vec2:
			if f, ok := arith(op); ok {
				return Vec2{f(l.X, r.X), f(l.Y, r.Y)}, nil
			}

			switch op {
			case OpEq:
				return Bool(l == r), nil
			case OpNeq:
				return Bool(l != r), nil
			}
		}
	}

	return nil, ErrTypeMismatch.Wrapf("cannot apply '%s' to %s and %s", op, l.Type(), r.Type())
}

// Unary applies the prefix operator op to a resolved operand.
func Unary(op Operator, v Value) (Value, error) {
	if isNull(v) {
		return nil, ErrNullValue.Wrapf("cannot apply '%s' because value is null", op)
	}

	switch op {
	case OpSub:
		switch v := v.(type) {
		case Number:
			return -v, nil
		case Vec2:
			return Vec2{-v.X, -v.Y}, nil
		}
	case OpNot:
		if b, ok := v.(Bool); ok {
			return !b, nil
		}
	}

	return nil, ErrTypeMismatch.Wrapf("cannot apply '%s' to %s", op, v.Type())
}

func numberOp(op Operator, a, b float64) (Value, bool) {
	if f, ok := arith(op); ok {
		return Number(f(a, b)), true
	}

	switch op {
	case OpEq:
		return Bool(a == b), true
	case OpNeq:
		return Bool(a != b), true
	case OpLt:
		return Bool(a < b), true
	case OpLte:
		return Bool(a <= b), true
	case OpGt:
		return Bool(a > b), true
	case OpGte:
		return Bool(a >= b), true
	default:
		return nil, false
	}
}

func arith(op Operator) (func(a, b float64) float64, bool) {
	switch op {
	case OpAdd:
		return func(a, b float64) float64 { return a + b }, true
	case OpSub:
		return func(a, b float64) float64 { return a - b }, true
	case OpMul:
		return func(a, b float64) float64 { return a * b }, true
	case OpDiv:
		return func(a, b float64) float64 { return a / b }, true
	case OpMod:
		return math.Mod, true
	case OpPow:
		return math.Pow, true
	default:
		return nil, false
	}
}

// field reads a named component of v.
func field(v Value, name string) (Value, error) {
	vec, ok := v.(Vec2)
	if !ok {
		return nil, ErrFieldAccess.Wrapf("cannot access field '%s' on %s", name, v.Type())
	}

	switch name {
	case "x":
		return Number(vec.X), nil
	case "y":
		return Number(vec.Y), nil
	default:
		return nil, ErrFieldAccess.Wrapf("vec2 has no field '%s'", name)
	}
}

// setField returns a copy of v with the component at path replaced by x.
func setField(v Value, path []string, x Value) (Value, error) {
	if len(path) == 0 {
		return x, nil
	}

	cur, err := field(v, path[0])
	if err != nil {
		return nil, err
	}

	next, err := setField(cur, path[1:], x)
	if err != nil {
		return nil, err
	}

	n, ok := next.(Number)
	if !ok {
		return nil, ErrTypeMismatch.Wrapf("cannot assign %s to field '%s' of vec2", next.Type(), path[0])
	}

	vec, _ := v.(Vec2)

	if path[0] == "x" {
		vec.X = float64(n)
	} else {
		vec.Y = float64(n)
	}

	return vec, nil
}
