package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestRun_Formats(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rect.shape", rectScript)

	t.Run("text", func(t *testing.T) {
		res, err := execute(t, "", "run", path)
		if err != nil {
			t.Fatalf("run: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(res.stdout.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2:\n%s", len(lines), res.stdout.String())
		}

		if !strings.HasPrefix(lines[0], "shape(4 vertices, 2 triangles") {
			t.Errorf("line 1 = %q", lines[0])
		}

		if !strings.HasPrefix(lines[1], "digest ") {
			t.Errorf("line 2 = %q", lines[1])
		}
	})

	t.Run("json", func(t *testing.T) {
		res, err := execute(t, "", "run", "-o", "json", path)
		if err != nil {
			t.Fatalf("run: %v", err)
		}

		var got struct {
			Shape struct {
				Vertices []any `json:"vertices"`
				Indices  []int `json:"indices"`
			} `json:"shape"`
			Digest string `json:"digest"`
		}

		if err := json.Unmarshal(res.stdout.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v\n%s", err, res.stdout.String())
		}

		if len(got.Shape.Vertices) != 4 || len(got.Shape.Indices) != 6 {
			t.Errorf("shape has %d vertices and %d indices, want 4 and 6",
				len(got.Shape.Vertices), len(got.Shape.Indices))
		}

		if got.Digest == "" {
			t.Error("missing digest")
		}
	})

	t.Run("yaml", func(t *testing.T) {
		res, err := execute(t, "", "run", "-o", "yaml", path)
		if err != nil {
			t.Fatalf("run: %v", err)
		}

		var got map[string]any
		if err := yaml.Unmarshal(res.stdout.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v\n%s", err, res.stdout.String())
		}

		for _, key := range []string{"shape", "digest"} {
			if _, ok := got[key]; !ok {
				t.Errorf("missing key %q in:\n%s", key, res.stdout.String())
			}
		}
	})
}

func TestRun_InputsAndPrint(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sized.shape", `
input size: Number = 1;
print[_: size];
export rect0[x: 0, y: 0, width: size, height: 1];
`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default", args: []string{"run", path}, want: "1\n"},
		{name: "bound", args: []string{"run", "-i", "size=3", path}, want: "3\n"},
		{name: "expression", args: []string{"run", "-i", "size=2 * 4", path}, want: "8\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}

			if got := res.stdout.String(); !strings.HasPrefix(got, tt.want) {
				t.Errorf("output = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestRun_Vars(t *testing.T) {
	path := writeFile(t, t.TempDir(), "vars.shape",
		"let w = 4;\nexport rect0[x: 0, y: 0, width: w, height: 1];\n")

	res, err := execute(t, "", "run", "--vars", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(res.stdout.String(), "w = 4\n") {
		t.Errorf("output = %q, want variable listing", res.stdout.String())
	}
}

func TestRun_Adaptive(t *testing.T) {
	path := writeFile(t, t.TempDir(), "corner.shape", `
let c = rect0[x: 0, y: 0, width: 1, height: 1];
export c as tl;
export finish;
`)

	res, err := execute(t, "", "run", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.HasPrefix(res.stdout.String(), "adaptive (1 of 9 slots)") {
		t.Errorf("output = %q", res.stdout.String())
	}
}

func TestRun_SearchPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "box.shape", rectScript)

	if _, err := execute(t, "", "-P", dir, "run", "box"); err != nil {
		t.Fatalf("run: %v", err)
	}
}
