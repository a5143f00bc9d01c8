package lang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ardnew/shapescript/geom"
)

const unitRect = "export rect0[x: 0, y: 0, width: 1, height: 1];"

// run parses and executes src, returning the result and everything
// written by print.
func run(t *testing.T, src string, inputs map[string]Value, opts ...Option) (*Result, string, error) {
	t.Helper()

	var out bytes.Buffer

	prog, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	res, err := prog.Run(t.Context(), inputs, append(opts, WithOutput(&out))...)

	return res, out.String(), err
}

func lines(s ...string) string {
	if len(s) == 0 {
		return ""
	}

	return strings.Join(s, "\n") + "\n"
}

func TestRun_Loops(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "count up",
			input: "for i in begin[end: 5] print[_: i];",
			want:  lines("0", "1", "2", "3", "4"),
		},
		{
			name:  "count down",
			input: "for i in begin[start: 5, end: 0, step: -1] print[_: i];",
			want:  lines("5", "4", "3", "2", "1"),
		},
		{
			name:  "start past end",
			input: "for i in begin[start: 5, end: 0] print[_: i];",
			want:  lines(),
		},
		{
			name:  "fractional step",
			input: "for i in begin[end: 1, step: 0.25] print[_: i];",
			want:  lines("0", "0.25", "0.5", "0.75"),
		},
		{
			name:  "break",
			input: "for i in begin[end: 10] : if i == 2 break; print[_: i]; end;",
			want:  lines("0", "1"),
		},
		{
			name:  "continue",
			input: "for i in begin[end: 3] : if i == 1 continue; print[_: i]; end;",
			want:  lines("0", "2"),
		},
		{
			name:  "let in body",
			input: "for i in begin[end: 3] : let sq = i * i; print[_: sq]; end;",
			want:  lines("0", "1", "4"),
		},
		{
			name:  "nested",
			input: "for i in begin[end: 2] for j in begin[end: 2] print[i: i, j: j];",
			want:  lines("i: 0, j: 0", "i: 0, j: 1", "i: 1, j: 0", "i: 1, j: 1"),
		},
		{
			name:  "while",
			input: "let n = 0; while n < 3 : print[_: n]; n += 1; end;",
			want:  lines("0", "1", "2"),
		},
		{
			name:  "bounds evaluated once",
			input: "let e = 3; for i in begin[end: e] : e = 10; print[_: i]; end;",
			want:  lines("0", "1", "2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := run(t, tt.input+unitRect, nil)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if out != tt.want {
				t.Errorf("got output %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRun_Expressions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2 * 3", "7"},
		{"-2 ^ 2", "4"},
		{"2 ^ 3 ^ 2", "64"},
		{"7 % 3", "1"},
		{"1 / 4", "0.25"},
		{"[1, 2] * 2", "[2, 4]"},
		{"2 - [1, 3]", "[1, -1]"},
		{"[1, 2] + [3, 4]", "[4, 6]"},
		{"-[1, 2]", "[-1, -2]"},
		{"[1, 2] == [1, 2]", "true"},
		{"1 < 2 and !false", "true"},
		{"1 is 2 or 3 isnt 3", "false"},
		{"type[[1, 2], Vec2]", "true"},
		{"type[#, Number]", "false"},
		{"type[null, Number] == false", "true"},
		{"[3, 4].x", "3"},
		{"π > 3.14", "true"},
		{"hypot[x: 3, y: 4]", "5"},
		{"sqrt[_: 16]", "4"},
		{"floor[value: -1.5]", "-2"},
		{"clamp[value: 5, min: 0, max: 2]", "2"},
		{"lerp[a: 0, b: 10, t: 0.5]", "5"},
		{"acos[_: 1]", "0"},
		{"round[_: rad_to_deg[rad: π]]", "180"},
		{"is_nan[_: 0 / 0]", "true"},
		{"sign[_: -3]", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, out, err := run(t, "print[_: "+tt.expr+"];"+unitRect, nil)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_Fields(t *testing.T) {
	src := `
let v = [1, 2];
v.x = 5;
v.y += 3;
let w = v;
w.x = 0;
print[v: v, w: w];
` + unitRect

	_, out, err := run(t, src, nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if want := lines("v: [5, 5], w: [0, 5]"); out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRun_Functions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "recursion",
			input: `
function fact[n: Number] :
	if n <= 1 return 1;
	return n * fact[n: n - 1];
end;
print[_: fact[_: 5]];`,
			want: lines("120"),
		},
		{
			name: "locals do not leak between calls",
			input: `
function inc[a: Number] :
	let b = a + 1;
	return b;
end;
print[_: inc[_: 1]];
print[_: inc[_: 2]];`,
			want: lines("2", "3"),
		},
		{
			name: "inputs visible",
			input: `
input k: Number = 10;
function scale[x: Number] return x * k;
print[_: scale[_: 2]];`,
			want: lines("20"),
		},
		{
			name: "named arguments in any order",
			input: `
function sub[a: Number, b: Number] return a - b;
print[_: sub[b: 1, a: 5]];`,
			want: lines("4"),
		},
		{
			name: "no return yields null",
			input: `
function noop[] :end;
print[_: noop[]];`,
			want: lines("null"),
		},
		{
			name: "loop inside function",
			input: `
function sum[n: Number] :
	let total = 0;
	for i in begin[end: n] total += i;
	return total;
end;
print[_: sum[n: 4]];`,
			want: lines("6"),
		},
		{
			name: "shape parameter",
			input: `
function width[s: Shape] :
	return 2;
end;
print[_: width[s: rect0[x: 0, y: 0, width: 2, height: 1]]];`,
			want: lines("2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := run(t, tt.input+unitRect, nil)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    []Option
		wantErr error
	}{
		{"redefinition", "let x = 1; let x = 2;", nil, ErrRedefinition},
		{"assign unknown", "y = 1;", nil, ErrUnknownVariable},
		{"read unknown", "print[_: nope];", nil, ErrUnknownVariable},
		{"loop var unbound after loop", "for i in begin[end: 1] :end; print[_: i];", nil, ErrUnknownVariable},
		{"block let unbound", ": let a = 1; end; print[_: a];", nil, ErrUnknownVariable},
		{"global hidden in function", "let z = 1; function h[] return z; print[_: h[]];", nil, ErrUnknownVariable},
		{"null arithmetic", "let n = #; print[_: n + 1];", nil, ErrNullValue},
		{"mixed types", "print[_: 1 + true];", nil, ErrTypeMismatch},
		{"mixed types reversed", "print[_: true + 1];", nil, ErrTypeMismatch},
		{"loop body let unbound after loop", "for i in begin[end: 1] let q = 1; print[_: q];", nil, ErrUnknownVariable},
		{"non-bool condition", "if 1 print[_: 1];", nil, ErrTypeMismatch},
		{"field on number", "let n = 1; print[_: n.x];", nil, ErrFieldAccess},
		{"unknown field", "let v = [1, 2]; print[_: v.z];", nil, ErrFieldAccess},
		{"break outside loop", "break;", nil, ErrLoopControl},
		{"zero step", "for i in begin[end: 1, step: 0] :end;", nil, ErrLoopStep},
		{"iteration limit", "while true :end;", []Option{WithMaxIterations(100)}, ErrIterationLimit},
		{"call depth", "function r[n: Number] return r[n: n + 1]; print[_: r[n: 0]];",
			[]Option{WithMaxCallDepth(10)}, ErrCallDepth},
		{"unknown function", "print[_: frobnicate[_: 1]];", nil, ErrUnknownFunction},
		{"missing param", "function f[a: Number] return a; print[_: f[]];", nil, ErrMissingArgument},
		{"param type", "function f[a: Number] return a; print[_: f[a: true]];", nil, ErrTypeMismatch},
		{"unknown param", "function f[a: Number] return a; print[_: f[b: 1]];", nil, ErrArgument},
		{"ambiguous unnamed", "function f[a: Number, b: Number] return a; print[_: f[_: 1]];", nil, ErrArgument},
		{"builtin unknown param", "print[_: sin[angle: 1]];", nil, ErrArgument},
		{"builtin missing param", "print[_: hypot[x: 1]];", nil, ErrMissingArgument},
		{"builtin wrong type", "print[_: sqrt[_: [1, 2]]];", nil, ErrArgument},
		{"tri count", "let c = circle0[cx: 0, cy: 0, radius: 1, tri_count: 0];", nil, ErrArgument},
		{"arc angle", "let a = arc0[cx: 0, cy: 0, radius: 1, range_deg: 90, tri_count: 4];", nil, ErrMissingArgument},
		{"vertex outside shape", "vertex[vertex_x: 0, vertex_y: 0];", nil, ErrVertexOutsideShape},
		{"return in shape", "function f[] : let s = begin[0] : return 1; end; end; f[];", nil, ErrLoopControl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.input+unitRect, nil, tt.opts...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.Is(err, ErrExec) {
				t.Errorf("error %q is not an execution error", err)
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error %q does not match %q", err, tt.wantErr)
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	prog, err := Parse(ctx, "while true :end;"+unitRect)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if _, err := prog.Run(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want %v", err, context.Canceled)
	}
}

func TestRun_Inputs(t *testing.T) {
	src := `
input size: Number = 2;
input wide: Bool = false;
input at: Vec2 = [0, 0];
let w = size;
if wide w *= 2;
export rect0[x: at.x, y: at.y, width: w, height: size];
`

	tests := []struct {
		name    string
		inputs  map[string]Value
		want    geom.Rect
		wantErr error
	}{
		{
			name: "defaults",
			want: geom.Rect{Width: 2, Height: 2},
		},
		{
			name:   "overrides",
			inputs: map[string]Value{"size": Number(3), "wide": Bool(true), "at": Vec2{X: 1, Y: 2}},
			want:   geom.Rect{X: 1, Y: 2, Width: 6, Height: 3},
		},
		{
			name:   "null uses default",
			inputs: map[string]Value{"size": Null{}},
			want:   geom.Rect{Width: 2, Height: 2},
		},
		{
			name:    "wrong type",
			inputs:  map[string]Value{"size": Bool(true)},
			wantErr: ErrInputType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := run(t, src, tt.inputs)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if res.Shape.Extent != tt.want {
				t.Errorf("got extent %s, want %s", res.Shape.Extent, tt.want)
			}
		})
	}

	t.Run("missing without default", func(t *testing.T) {
		_, _, err := run(t, "input n: Number;"+unitRect, nil)
		if !errors.Is(err, ErrMissingInput) {
			t.Errorf("got %v, want %v", err, ErrMissingInput)
		}
	})
}

func TestRun_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		vertices int
		indices  int
	}{
		{
			name: "strip",
			input: `
let s = begin[1] :
	vertex[vertex_x: 0, vertex_y: 0];
	vertex[vertex_x: 0, vertex_y: 1];
	vertex[_: [1, 0]];
	vertex[_: [1, 1]];
end;
export s;`,
			vertices: 4,
			indices:  6,
		},
		{
			name: "triangles from loop",
			input: `
let s = begin[0] :
	for i in begin[end: 6] vertex[vertex_x: i, vertex_y: i % 2];
end;
export s;`,
			vertices: 6,
			indices:  6,
		},
		{
			name: "incomplete triangle ignored",
			input: `
let s = begin[0] :
	vertex[_: [0, 0]]; vertex[_: [1, 0]]; vertex[_: [0, 1]]; vertex[_: [1, 1]];
end;
export s;`,
			vertices: 4,
			indices:  3,
		},
		{
			name:     "rect",
			input:    unitRect,
			vertices: 4,
			indices:  6,
		},
		{
			name:     "circle",
			input:    "export circle0[cx: 0, cy: 0, radius: 1, tri_count: 8];",
			vertices: 10,
			indices:  24,
		},
		{
			name:     "combine",
			input:    "let a = rect0[x: 0, y: 0, width: 1, height: 1]; export combine[a: a, b: a];",
			vertices: 8,
			indices:  12,
		},
		{
			name:     "void rect",
			input:    "export void_rect0[x: 0, y: 0, width: 4, height: 4, thickness: 1];",
			vertices: 16,
			indices:  24,
		},
		{
			name: "function returning shape",
			input: `
function tri[a: Vec2] return triangle1[a: a, b: a + [1, 0], c: a + [0, 1]];
export tri[_: [2, 2]];`,
			vertices: 3,
			indices:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := run(t, tt.input, nil)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if res.IsAdaptive() {
				t.Fatal("expected a single shape")
			}

			if got := len(res.Shape.Vertices); got != tt.vertices {
				t.Errorf("got %d vertices, want %d", got, tt.vertices)
			}

			if got := len(res.Shape.Indices); got != tt.indices {
				t.Errorf("got %d indices, want %d", got, tt.indices)
			}
		})
	}
}

func TestRun_Transform(t *testing.T) {
	tests := []struct {
		name string
		args string
		want geom.Rect
	}{
		{"translate", "translate_x: 2, translate_y: -1", geom.Rect{X: 2, Y: -1, Width: 2, Height: 1}},
		{"scale about center", "scale_x: 2", geom.Rect{X: -1, Y: 0, Width: 4, Height: 1}},
		{"scale about origin", "scale_x: 2, scale_y: 3, origin_x: 0, origin_y: 0", geom.Rect{Width: 4, Height: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "let r = rect0[x: 0, y: 0, width: 2, height: 1];" +
				"export transform[shape: r, " + tt.args + "];"

			res, _, err := run(t, src, nil)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if res.Shape.Extent != tt.want {
				t.Errorf("got extent %s, want %s", res.Shape.Extent, tt.want)
			}
		})
	}

	t.Run("source unchanged", func(t *testing.T) {
		src := "let r = rect0[x: 0, y: 0, width: 2, height: 1];" +
			"let moved = transform[shape: r, translate_x: 5];" +
			"export r;"

		res, _, err := run(t, src, nil)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}

		if res.Shape.Extent.X != 0 {
			t.Errorf("transform modified its argument: %s", res.Shape.Extent)
		}
	})
}

func TestRun_Export(t *testing.T) {
	t.Run("halts", func(t *testing.T) {
		res, out, err := run(t, unitRect+"print[_: 1];", nil)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}

		if out != "" {
			t.Errorf("statements after export ran: %q", out)
		}

		if res.Shape == nil {
			t.Fatal("no shape exported")
		}
	})

	t.Run("from function", func(t *testing.T) {
		src := "function emit[] : " + unitRect + " end; emit[]; print[_: 1];"

		res, out, err := run(t, src, nil)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}

		if out != "" || res.Shape == nil {
			t.Errorf("export inside function did not halt: out=%q shape=%v", out, res.Shape)
		}
	})

	t.Run("first export wins", func(t *testing.T) {
		src := "export rect0[x: 0, y: 0, width: 2, height: 1];" +
			"export rect0[x: 0, y: 0, width: 3, height: 1];"

		res, _, err := run(t, src, nil)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}

		if w := res.Shape.Extent.Width; w != 2 {
			t.Errorf("got width %v, want 2 from the first export", w)
		}
	})

	t.Run("vars", func(t *testing.T) {
		res, _, err := run(t, "let a = 3; let v = [1, 2];"+unitRect, nil)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}

		if res.Vars["a"] != Number(3) {
			t.Errorf("got a = %v, want 3", res.Vars["a"])
		}

		if res.Vars["v"] != (Vec2{X: 1, Y: 2}) {
			t.Errorf("got v = %v, want [1, 2]", res.Vars["v"])
		}
	})

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing", "let a = 1;", ErrMissingExport},
		{"not a shape", "export 1;", ErrNotShape},
		{"duplicate slot", "export # as tl; export # as top_left;", ErrExportSlot},
		{"finish without slots", "export finish;", ErrExportSlot},
		{"shape after slots", "export # as c; " + unitRect, ErrExportSlot},
		{"slot not a shape", "export [1, 2] as c;", ErrNotShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.input, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRun_Adaptive(t *testing.T) {
	const parts = `
let corner = rect0[x: 0, y: 0, width: 1, height: 1];
let edge = rect0[x: 0, y: 0, width: 1, height: 1];
let fill = rect0[x: 0, y: 0, width: 4, height: 4];
`

	tests := []struct {
		name   string
		input  string
		filled int
	}{
		{
			name:   "all parts",
			input:  "export adaptive: corner, edge, corner, edge, corner, edge, corner, edge, fill;",
			filled: 9,
		},
		{
			name:   "empty parts",
			input:  "export adaptive: corner, #, corner, null, corner, #, corner, #, fill;",
			filled: 5,
		},
		{
			name: "slots then finish",
			input: `
export corner as tl;
export fill as center;
export finish;
print[_: 1];`,
			filled: 2,
		},
		{
			name: "all slots halt",
			input: `
for i in begin[end: 1] :
	export corner as bl; export edge as l; export corner as tl;
	export edge as t; export corner as tr; export edge as r;
	export corner as br; export edge as b; export fill as c;
end;
print[_: 1];`,
			filled: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out, err := run(t, parts+tt.input, nil)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if !res.IsAdaptive() {
				t.Fatal("expected an adaptive shape")
			}

			if got := res.Adaptive.Filled(); got != tt.filled {
				t.Errorf("got %d filled slots, want %d", got, tt.filled)
			}

			if out != "" {
				t.Errorf("statements after the final export ran: %q", out)
			}
		})
	}

	t.Run("slot order", func(t *testing.T) {
		var src strings.Builder

		for i := range geom.SlotCount {
			fmt.Fprintf(&src, "let p%d = rect0[x: 0, y: 0, width: %d, height: 1];\n", i, i+1)
		}

		src.WriteString("export adaptive: p0, p1, p2, p3, p4, p5, p6, p7, p8;")

		res, _, err := run(t, src.String(), nil)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}

		i := 0
		for slot := range geom.Slots() {
			part := res.Adaptive.Get(slot)
			if part == nil {
				t.Fatalf("slot %s is empty", slot.Long())
			}

			if w := part.Extent.Width; w != float64(i+1) {
				t.Errorf("slot %s has width %v, want %d", slot.Long(), w, i+1)
			}

			i++
		}
	})

	t.Run("empty part keeps position", func(t *testing.T) {
		res, _, err := run(t, parts+"export adaptive: #, #, #, #, #, #, #, #, fill;", nil)
		if err != nil {
			t.Fatalf("run error: %v", err)
		}

		if res.Adaptive.Get(geom.SlotCenter) == nil {
			t.Error("last adaptive part should fill the center slot")
		}

		if res.Adaptive.Get(geom.SlotBottomLeft) != nil {
			t.Error("first adaptive part should be empty")
		}
	})
}

func TestRun_ExportFromFunction(t *testing.T) {
	const emit = "function f[] : export rect0[x: 0, y: 0, width: 2, height: 1]; end;\n"

	tests := []struct {
		name  string
		input string
	}{
		{"statement", "f[]; print[_: 1];"},
		{"export operand", "export f[];"},
		{"binary operand", "let s = f[] + 1; print[_: s];"},
		{"builtin argument", "print[_: f[]]; print[_: 2];"},
		{"nested call", "function g[] return f[] * 2; let v = g[] + 1; print[_: v];"},
		{"loop bound", "for i in begin[end: f[]] print[_: i];"},
		{"inside loop", "for i in begin[end: 3] : print[_: i]; let s = f[] + i; end; print[_: 9];"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out, err := run(t, emit+tt.input, nil)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if res.Shape == nil || res.Shape.Extent.Width != 2 {
				t.Fatalf("got shape %v, want the function's export", res.Shape)
			}

			if want := map[string]string{"inside loop": "0\n"}[tt.name]; out != want {
				t.Errorf("statements after the export ran: got %q, want %q", out, want)
			}
		})
	}
}

func TestRun_Scoping(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "skipped let keeps outer binding",
			input: "let y = 3; for i in begin[end: 2] : if true continue; let y = 1; end; print[_: y];",
			want:  lines("3"),
		},
		{
			name:  "loop body let is per iteration",
			input: "for i in begin[end: 3] let y = i; print[_: 1];",
			want:  lines("1"),
		},
		{
			name:  "conditional let in loop body",
			input: "for i in begin[end: 3] if i > 0 let z = i; print[_: 2];",
			want:  lines("2"),
		},
		{
			name:  "while body let is per iteration",
			input: "let n = 0; while n < 3 : n += 1; let m = n; end; print[_: n];",
			want:  lines("3"),
		},
		{
			name:  "block let rebinds each iteration",
			input: "for i in begin[end: 3] : let a = i * 2; print[_: a]; end;",
			want:  lines("0", "2", "4"),
		},
		{
			name:  "name reusable after block",
			input: ": let b = 1; end; let b = 2; print[_: b];",
			want:  lines("2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := run(t, tt.input+unitRect, nil)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRun_Digest(t *testing.T) {
	src := `
input n: Number = 6;
let s = begin[0] :
	for i in begin[end: n] :
		let a = i / n * 2 * π;
		vertex[vertex_x: 0, vertex_y: 0];
		vertex[vertex_x: cos[_: a], vertex_y: sin[_: a]];
		vertex[vertex_x: cos[_: a + π / 3], vertex_y: sin[_: a + π / 3]];
	end;
end;
export s;
`

	prog, err := Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	a, err := prog.Run(t.Context(), nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	b, err := prog.Run(t.Context(), nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if a.Digest() != b.Digest() {
		t.Error("repeated runs produced different geometry")
	}

	c, err := prog.Run(t.Context(), map[string]Value{"n": Number(8)})
	if err != nil {
		t.Fatalf("third run: %v", err)
	}

	if a.Digest() == c.Digest() {
		t.Error("different inputs produced identical geometry")
	}
}
