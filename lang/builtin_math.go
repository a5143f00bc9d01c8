package lang

import "math"

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// fract returns the fractional part of f, keeping its sign.
func fract(f float64) float64 { return f - math.Trunc(f) }

// sign returns 1 or -1 by the sign bit of f, or NaN for NaN.
func sign(f float64) float64 {
	if math.IsNaN(f) {
		return f
	}

	return math.Copysign(1, f)
}

func mathFunc(name, doc string, fn func(float64) float64) *Builtin {
	return &Builtin{
		Name:   name,
		Doc:    doc,
		Params: []Param{num("value")},
		Call: func(a *Args) (Value, error) {
			v, err := a.Number("value")
			if err != nil {
				return nil, err
			}

			return Number(fn(v)), nil
		},
	}
}

func mathPred(name, doc string, fn func(float64) bool) *Builtin {
	return &Builtin{
		Name:   name,
		Doc:    doc,
		Params: []Param{num("value")},
		Call: func(a *Args) (Value, error) {
			v, err := a.Number("value")
			if err != nil {
				return nil, err
			}

			return Bool(fn(v)), nil
		},
	}
}

// mathFuncN binds every named parameter to a number before calling fn.
func mathFuncN(name, doc string, fn func(...float64) float64, params ...string) *Builtin {
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

			return Number(fn(vs...)), nil
		},
	}
}

func mathBuiltins() []*Builtin {
	return []*Builtin{
		mathFunc("sin", "Sine of an angle in radians.", math.Sin),
		mathFunc("cos", "Cosine of an angle in radians.", math.Cos),
		mathFunc("tan", "Tangent of an angle in radians.", math.Tan),
		mathFunc("asin", "Arcsine in radians.", math.Asin),
		mathFunc("acos", "Arccosine in radians.", math.Acos),
		mathFunc("atan", "Arctangent in radians.", math.Atan),
		mathFunc("floor", "Largest integer not above value.", math.Floor),
		mathFunc("ceil", "Smallest integer not below value.", math.Ceil),
		mathFunc("abs", "Absolute value.", math.Abs),
		mathFunc("sqrt", "Square root.", math.Sqrt),
		mathFunc("cbrt", "Cube root.", math.Cbrt),
		mathFunc("recip", "Reciprocal, 1/value.", func(f float64) float64 { return 1 / f }),
		mathFunc("ln", "Natural logarithm.", math.Log),
		mathFunc("log10", "Base-10 logarithm.", math.Log10),
		mathFunc("log2", "Base-2 logarithm.", math.Log2),
		mathFunc("exp", "e raised to value.", math.Exp),
		mathFunc("exp2", "2 raised to value.", math.Exp2),
		mathFunc("round", "Nearest integer, halves away from zero.", math.Round),
		mathFunc("trunc", "Integer part.", math.Trunc),
		mathFunc("fract", "Fractional part.", fract),
		mathFunc("sign", "1 or -1 by the sign of value.", sign),

		mathPred("is_nan", "Reports whether value is NaN.", math.IsNaN),
		mathPred("is_finite", "Reports whether value is neither infinite nor NaN.",
			func(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }),
		mathPred("is_infinite", "Reports whether value is infinite.",
			func(f float64) bool { return math.IsInf(f, 0) }),
		mathPred("is_sign_positive", "Reports whether the sign bit of value is clear.",
			func(f float64) bool { return !math.Signbit(f) }),
		mathPred("is_sign_negative", "Reports whether the sign bit of value is set.",
			math.Signbit),

		{
			Name:   "deg_to_rad",
			Doc:    "Converts degrees to radians.",
			Params: []Param{num("deg")},
			Call: func(a *Args) (Value, error) {
				d, err := a.Number("deg")

				return Number(degToRad(d)), err
			},
		},
		{
			Name:   "rad_to_deg",
			Doc:    "Converts radians to degrees.",
			Params: []Param{num("rad")},
			Call: func(a *Args) (Value, error) {
				r, err := a.Number("rad")

				return Number(radToDeg(r)), err
			},
		},
		{
			Name:   "next_after",
			Doc:    "Next representable number after start, toward +Inf or toward -Inf when direction is negative.",
			Params: []Param{num("start"), optNum("direction")},
			Call: func(a *Args) (Value, error) {
				s, err := a.Number("start")
				if err != nil {
					return nil, err
				}

				d, err := a.NumberOr("direction", 1)
				if err != nil {
					return nil, err
				}

				return Number(math.Nextafter(s, math.Inf(int(sign(d))))), nil
			},
		},

		mathFuncN("atan2", "Angle of the point (b, a) in radians.",
			func(v ...float64) float64 { return math.Atan2(v[0], v[1]) }, "a", "b"),
		mathFuncN("hypot", "Length of the vector (x, y).",
			func(v ...float64) float64 { return math.Hypot(v[0], v[1]) }, "x", "y"),
		mathFuncN("copysign", "Magnitude with the sign of sign.",
			func(v ...float64) float64 { return math.Copysign(v[0], v[1]) }, "magnitude", "sign"),
		mathFuncN("fma", "a*b+c with a single rounding.",
			func(v ...float64) float64 { return math.FMA(v[0], v[1], v[2]) }, "a", "b", "c"),
		mathFuncN("min", "Smaller of a and b.",
			func(v ...float64) float64 { return math.Min(v[0], v[1]) }, "a", "b"),
		mathFuncN("max", "Larger of a and b.",
			func(v ...float64) float64 { return math.Max(v[0], v[1]) }, "a", "b"),
		mathFuncN("lerp", "Linear interpolation from a to b by t.",
			func(v ...float64) float64 { return v[0] + (v[1]-v[0])*v[2] }, "a", "b", "t"),
		mathFuncN("clamp", "Value limited to [min, max].",
			func(v ...float64) float64 { return math.Max(v[1], math.Min(v[2], v[0])) },
			"value", "min", "max"),
	}
}
