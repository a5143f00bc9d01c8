package lang

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestBinary(t *testing.T) {
	tests := []struct {
		name    string
		op      Operator
		l, r    Value
		want    Value
		wantErr error
	}{
		{"add", OpAdd, Number(1), Number(2), Number(3), nil},
		{"mod", OpMod, Number(7), Number(4), Number(3), nil},
		{"pow", OpPow, Number(2), Number(10), Number(1024), nil},
		{"lte", OpLte, Number(2), Number(2), Bool(true), nil},
		{"broadcast left", OpMul, Number(3), Vec2{1, 2}, Vec2{3, 6}, nil},
		{"broadcast right", OpDiv, Vec2{2, 4}, Number(2), Vec2{1, 2}, nil},
		{"vec add", OpAdd, Vec2{1, 2}, Vec2{3, 4}, Vec2{4, 6}, nil},
		{"vec neq", OpNeq, Vec2{1, 2}, Vec2{1, 3}, Bool(true), nil},
		{"and", OpAnd, Bool(true), Bool(false), Bool(false), nil},
		{"or", OpOr, Bool(true), Bool(false), Bool(true), nil},
		{"bool eq", OpEq, Bool(false), Bool(false), Bool(true), nil},
		{"null left", OpAdd, Null{}, Number(1), nil, ErrNullValue},
		{"null right", OpEq, Bool(true), Null{}, nil, ErrNullValue},
		{"bool arithmetic", OpAdd, Bool(true), Bool(true), nil, ErrTypeMismatch},
		{"vec compare", OpLt, Vec2{1, 2}, Vec2{3, 4}, nil, ErrTypeMismatch},
		{"number and bool", OpEq, Number(1), Bool(true), nil, ErrTypeMismatch},
		{"shape", OpAdd, ShapeValue{}, ShapeValue{}, nil, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Binary(tt.op, tt.l, tt.r)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBinary_MismatchNamesOperands(t *testing.T) {
	tests := []struct {
		name string
		l, r Value
	}{
		{"bool plus number", Bool(true), Number(1)},
		{"number plus bool", Number(1), Bool(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Binary(OpAdd, tt.l, tt.r)
			if !errors.Is(err, ErrTypeMismatch) {
				t.Fatalf("got error %v, want %v", err, ErrTypeMismatch)
			}

			for _, kind := range []string{"bool", "number"} {
				if !strings.Contains(err.Error(), kind) {
					t.Errorf("error %q does not name %s", err, kind)
				}
			}
		})
	}
}

func TestUnary(t *testing.T) {
	if v, err := Unary(OpSub, Number(2)); err != nil || v != Number(-2) {
		t.Errorf("negate number: got %v, %v", v, err)
	}

	if v, err := Unary(OpSub, Vec2{1, -1}); err != nil || v != (Vec2{-1, 1}) {
		t.Errorf("negate vec2: got %v, %v", v, err)
	}

	if v, err := Unary(OpNot, Bool(false)); err != nil || v != Bool(true) {
		t.Errorf("not: got %v, %v", v, err)
	}

	if _, err := Unary(OpNot, Number(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("not number: got %v, want %v", err, ErrTypeMismatch)
	}

	if _, err := Unary(OpSub, Null{}); !errors.Is(err, ErrNullValue) {
		t.Errorf("negate null: got %v, want %v", err, ErrNullValue)
	}
}

func TestSetField(t *testing.T) {
	v, err := setField(Vec2{1, 2}, []string{"y"}, Number(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v != (Vec2{1, 7}) {
		t.Errorf("got %v, want [1, 7]", v)
	}

	if _, err := setField(Vec2{}, []string{"x"}, Bool(true)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("got %v, want %v", err, ErrTypeMismatch)
	}

	if _, err := setField(Number(1), []string{"x"}, Number(1)); !errors.Is(err, ErrFieldAccess) {
		t.Errorf("got %v, want %v", err, ErrFieldAccess)
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null{}, "null"},
		{Number(1.5), "1.5"},
		{Number(math.Inf(1)), "+Inf"},
		{Bool(true), "true"},
		{Vec2{1, -2.5}, "[1, -2.5]"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("%#v: got %q, want %q", tt.v, got, tt.want)
		}
	}
}
