package lang

import (
	"log/slog"
	"math"
	"strings"

	"github.com/expr-lang/expr"
)

// inputEnv holds the constants available to host input expressions.
var inputEnv = map[string]any{
	"pi":  math.Pi,
	"tau": 2 * math.Pi,
	"e":   math.E,
}

// ParseInput evaluates a host-supplied input expression such as "3*pi/2",
// "true", or "[1, 2]". The result must be a number, a bool, or a
// two-element numeric list, which becomes a [Vec2].
func ParseInput(s string) (Value, error) {
	prog, err := expr.Compile(s, expr.Env(inputEnv))
	if err != nil {
		return nil, ErrInputValue.Wrap(err).With(slog.String("input", s))
	}

	out, err := expr.Run(prog, inputEnv)
	if err != nil {
		return nil, ErrInputValue.Wrap(err).With(slog.String("input", s))
	}

	if v, ok := nativeValue(out); ok {
		return v, nil
	}

	return nil, ErrInputValue.Wrapf("%q must be a number, bool, or [x, y]", s)
}

// ParseAssignments parses "name=expr" pairs with [ParseInput].
func ParseAssignments(pairs []string) (map[string]Value, error) {
	inputs := make(map[string]Value, len(pairs))

	for _, pair := range pairs {
		name, src, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, ErrInputValue.Wrapf("%q is not of the form name=value", pair)
		}

		v, err := ParseInput(src)
		if err != nil {
			return nil, err
		}

		inputs[name] = v
	}

	return inputs, nil
}

func nativeValue(x any) (Value, bool) {
	switch x := x.(type) {
	case bool:
		return Bool(x), true
	case int:
		return Number(x), true
	case int64:
		return Number(x), true
	case float64:
		return Number(x), true
	case []any:
		if len(x) != 2 {
			return nil, false
		}

		a, aok := nativeValue(x[0])
		b, bok := nativeValue(x[1])

		an, aok2 := a.(Number)
		bn, bok2 := b.(Number)

		if !aok || !bok || !aok2 || !bok2 {
			return nil, false
		}

		return Vec2{X: float64(an), Y: float64(bn)}, true
	default:
		return nil, false
	}
}
