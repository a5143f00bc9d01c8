package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

// roundTripSources exercise every statement form the printers emit.
var roundTripSources = map[string]string{
	"star": `
input points: Number = 5;
input radius: Vec2 = [2, 1];

// Alternates between the outer and inner radius.
function spoke[i: Number, r: Vec2] :
	let a = i / (points * 2) * 2 * π;
	let k = r.y;
	if i % 2 == 0 k = r.x;
	return [cos[_: a], sin[_: a]] * k;
end;

let star = begin[0] :
	for i in begin[end: points * 2] :
		vertex[_: [0, 0]];
		vertex[_: spoke[i: i, r: radius]];
		vertex[_: spoke[i: i + 1, r: radius]];
	end;
end;

export transform[shape: star, rotate_deg: 90, translate_x: -(radius.x)];
`,
	"panel": `
input border: Number = 1;
let corner = rect0[x: 0, y: 0, width: border, height: border];
let edge = rect0[x: 0, y: 0, width: border, height: border];
let n = 0;
while n < 3 :
	n += 1;
	if n is 2 continue;
	else if n > 5 break;
end;
for j in begin[start: 4, end: 0, step: -2] print[j: j, neg: !(j > 2)];
export adaptive: corner, edge, corner, edge, corner, edge, corner, edge, #;
`,
	"slots": `
let a = circle0[cx: 0, cy: 0, radius: 1, tri_count: 6];
let b = arc0[cx: 0, cy: 0, radius: 1, offset_deg: 0, range_rad: π / 2, tri_count: 3];
let v = [1, 2];
v.x *= -2 ^ 2;
print[_: type[v, Vec2], x: v.x];
export a as tl;
export b as c;
export finish;
`,
}

func TestFormat_RoundTrip(t *testing.T) {
	for name, src := range roundTripSources {
		for _, indent := range []int{0, 2} {
			t.Run(name, func(t *testing.T) {
				want, wantOut := digestOf(t, src)

				prog, err := Parse(t.Context(), src)
				if err != nil {
					t.Fatalf("parse error: %v", err)
				}

				var buf bytes.Buffer
				if err := prog.Format(t.Context(), &buf, indent); err != nil {
					t.Fatalf("format error: %v", err)
				}

				if indent == 0 && strings.Count(buf.String(), "\n") != 1 {
					t.Errorf("indent 0 produced multiple lines:\n%s", buf.String())
				}

				got, gotOut := digestOf(t, buf.String())
				if got != want {
					t.Errorf("formatted program exports different geometry:\n%s", buf.String())
				}

				if gotOut != wantOut {
					t.Errorf("got output %q, want %q", gotOut, wantOut)
				}
			})
		}
	}
}

func TestMinify_RoundTrip(t *testing.T) {
	for name, src := range roundTripSources {
		t.Run(name, func(t *testing.T) {
			want, wantOut := digestOf(t, src)

			prog, err := Parse(t.Context(), src)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			var buf bytes.Buffer
			if err := prog.Minify(&buf); err != nil {
				t.Fatalf("minify error: %v", err)
			}

			minified := buf.String()

			if strings.Count(minified, "\n") != 1 {
				t.Errorf("minified program spans multiple lines:\n%s", minified)
			}

			if strings.Contains(minified, "//") {
				t.Error("minified program kept comments")
			}

			got, gotOut := digestOf(t, minified)
			if got != want {
				t.Errorf("minified program exports different geometry:\n%s", minified)
			}

			// Printed argument names belong to built-ins and survive.
			if gotOut != wantOut {
				t.Errorf("got output %q, want %q", gotOut, wantOut)
			}
		})
	}
}

func TestMinify_KeepsInputs(t *testing.T) {
	prog, err := Parse(t.Context(), "input size: Number = 1; let longname = size * 2; export rect0[x: 0, y: 0, width: longname, height: size];")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := prog.Minify(&buf); err != nil {
		t.Fatalf("minify error: %v", err)
	}

	minified := buf.String()

	if !strings.Contains(minified, "input size: Number") {
		t.Errorf("input renamed: %s", minified)
	}

	if strings.Contains(minified, "longname") {
		t.Errorf("variable not renamed: %s", minified)
	}

	reparsed, err := Parse(t.Context(), minified)
	if err != nil {
		t.Fatalf("reparse error: %v\n%s", err, minified)
	}

	res, err := reparsed.Run(t.Context(), map[string]Value{"size": Number(3)})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if res.Shape.Extent.Width != 6 {
		t.Errorf("got width %g, want 6", res.Shape.Extent.Width)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "a"},
		{25, "z"},
		{26, "aa"},
		{27, "ab"},
		{26 + 26*26, "aaa"},
	}

	for _, tt := range tests {
		if got := key(tt.n); got != tt.want {
			t.Errorf("key(%d): got %q, want %q", tt.n, got, tt.want)
		}
	}

	next := keyGen(map[string]bool{"a": true, "c": true})
	for _, want := range []string{"b", "d", "e"} {
		if got := next(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	prog, err := Parse(t.Context(), roundTripSources["panel"])
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var tree map[string]any
	if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if tree["node"] != "program" {
		t.Errorf("got root node %v, want program", tree["node"])
	}

	stmts, ok := tree["statements"].([]any)
	if !ok || len(stmts) != len(prog.Stmts) {
		t.Fatalf("got %d statements, want %d", len(stmts), len(prog.Stmts))
	}

	last, _ := stmts[len(stmts)-1].(map[string]any)
	if last["node"] != "export_adaptive" {
		t.Errorf("got last node %v, want export_adaptive", last["node"])
	}

	parts, _ := last["parts"].(map[string]any)
	if len(parts) != 9 {
		t.Errorf("got %d adaptive parts, want 9", len(parts))
	}

	center, _ := parts["center"].(map[string]any)
	if center["node"] != "empty" {
		t.Errorf("got center %v, want empty", center)
	}
}

func TestFormatYAML(t *testing.T) {
	prog, err := Parse(t.Context(), "let x = 1 + 2;")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := prog.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}

	stmts, _ := tree["statements"].([]any)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}

	let, _ := stmts[0].(map[string]any)
	if let["node"] != "let" || let["name"] != "x" {
		t.Errorf("unexpected statement %v", let)
	}
}

// digestOf runs src and returns the digest of its export and its output.
func digestOf(t *testing.T, src string) (string, string) {
	t.Helper()

	res, out, err := run(t, src, nil)
	if err != nil {
		t.Fatalf("run error: %v\n%s", err, src)
	}

	return res.Digest(), out
}
