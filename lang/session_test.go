package lang

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

func TestSession_Persistence(t *testing.T) {
	var out bytes.Buffer

	s := NewSession(map[string]Value{"size": Number(3)}, WithOutput(&out))

	steps := []struct {
		src  string
		want Value
	}{
		{"let x = 2;", nil},
		{"x * 10;", Number(20)},
		{"function double[v: Number] return v * 2;", nil},
		{"double[_: x];", Number(4)},
		{"input size: Number = 1;", nil},
		{"size + x;", Number(5)},
		{"x += 1; x;", Number(3)},
		{"[x, size].y;", Number(3)},
	}

	for _, step := range steps {
		v, res, err := s.Eval(t.Context(), step.src)
		if err != nil {
			t.Fatalf("%q: %v", step.src, err)
		}

		if res != nil {
			t.Fatalf("%q: unexpected export", step.src)
		}

		if v != step.want {
			t.Errorf("%q: got %v, want %v", step.src, v, step.want)
		}
	}

	if got := s.Functions(); !slices.Equal(got, []string{"double"}) {
		t.Errorf("got functions %v", got)
	}

	vars := s.Vars()
	if vars["x"] != Number(3) || vars["size"] != Number(3) {
		t.Errorf("unexpected vars %v", vars)
	}
}

func TestSession_ParseErrorKeepsState(t *testing.T) {
	s := NewSession(nil)

	if _, _, err := s.Eval(t.Context(), "function f[] return 1;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The second declaration parses but the statement after it does not,
	// so neither function is kept.
	if _, _, err := s.Eval(t.Context(), "function g[] return 2; let = ;"); !errors.Is(err, ErrParse) {
		t.Fatalf("got %v, want %v", err, ErrParse)
	}

	if got := s.Functions(); !slices.Equal(got, []string{"f"}) {
		t.Errorf("got functions %v, want [f]", got)
	}

	v, _, err := s.Eval(t.Context(), "f[];")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v != Number(1) {
		t.Errorf("got %v, want 1", v)
	}
}

func TestSession_RuntimeError(t *testing.T) {
	s := NewSession(nil)

	if _, _, err := s.Eval(t.Context(), "let y = 1;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := s.Eval(t.Context(), "let y = 2;"); !errors.Is(err, ErrRedefinition) {
		t.Errorf("got %v, want %v", err, ErrRedefinition)
	}

	if _, _, err := s.Eval(t.Context(), "nope;"); !errors.Is(err, ErrUnknownVariable) {
		t.Errorf("got %v, want %v", err, ErrUnknownVariable)
	}

	v, _, err := s.Eval(t.Context(), "y;")
	if err != nil || v != Number(1) {
		t.Errorf("got %v, %v; want 1", v, err)
	}
}

func TestSession_Export(t *testing.T) {
	s := NewSession(nil)

	_, res, err := s.Eval(t.Context(), "let r = rect0[x: 0, y: 0, width: 2, height: 2]; export r;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res == nil || res.Shape == nil {
		t.Fatal("expected an exported shape")
	}

	// Export state resets so the session can export again.
	_, res, err = s.Eval(t.Context(), "export r as c; export finish;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res == nil || !res.IsAdaptive() {
		t.Fatal("expected an adaptive export")
	}

	if _, res, err = s.Eval(t.Context(), "export transform[shape: r, translate_x: 1];"); err != nil || res.Shape == nil {
		t.Fatalf("got %v, %v", res, err)
	}
}

func TestSession_ExportFromFunction(t *testing.T) {
	var out bytes.Buffer

	s := NewSession(nil, WithOutput(&out))

	if _, _, err := s.Eval(t.Context(),
		"function f[] : export rect0[x: 0, y: 0, width: 2, height: 1]; end;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, src := range []string{"let s = f[] + 1;", "f[] + 1; print[_: 1];"} {
		_, res, err := s.Eval(t.Context(), src)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", src, err)
		}

		if res == nil || res.Shape == nil || res.Shape.Extent.Width != 2 {
			t.Fatalf("%q: got %v, want the function's export", src, res)
		}
	}

	if out.Len() != 0 {
		t.Errorf("statements after the export ran: %q", out.String())
	}

	if _, ok := s.Vars()["s"]; ok {
		t.Error("variable bound by an interrupted let")
	}
}

func TestSession_Function(t *testing.T) {
	s := NewSession(nil)

	if _, _, err := s.Eval(t.Context(), "function grow[v: Vec2, k: Number] return v * k;"); err != nil {
		t.Fatalf("eval error: %v", err)
	}

	fn, ok := s.Function("grow")
	if !ok {
		t.Fatal("function not declared")
	}

	if got, want := fn.Signature(), "grow[v: Vec2, k: Number]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, ok := s.Function("shrink"); ok {
		t.Error("undeclared function found")
	}
}
