package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRender(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rect.shape", rectScript)
	corner := writeFile(t, dir, "corner.shape",
		"let c = rect0[x: 0, y: 0, width: 1, height: 1];\nexport c as tl;\nexport finish;\n")

	tests := []struct {
		name          string
		args          []string
		width, height int
	}{
		{name: "defaults", args: []string{"render", path}, width: 256, height: 256},
		{name: "sized", args: []string{"render", "--width", "40", "--height", "20", path}, width: 40, height: 20},
		{name: "wireframe", args: []string{"render", "--width", "32", "--height", "32", "--wireframe", "1", path}, width: 32, height: 32},
		{name: "adaptive", args: []string{"render", "--width", "30", "--height", "30", corner}, width: 30, height: 30},
		{name: "flattened", args: []string{"render", "--width", "30", "--height", "20", "--flatten", corner}, width: 30, height: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("render: %v", err)
			}

			img, err := png.Decode(bytes.NewReader(res.stdout.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			if b := img.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.width, tt.height)
			}
		})
	}
}

func TestRender_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rect.shape", rectScript)
	out := filepath.Join(dir, "rect.png")

	res, err := execute(t, "", "render", "-o", out, "--width", "16", "--height", "16", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if res.stdout.Len() != 0 {
		t.Errorf("wrote %d bytes to stdout", res.stdout.Len())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if _, err := png.DecodeConfig(f); err != nil {
		t.Errorf("decode: %v", err)
	}
}

func TestRender_Flatten(t *testing.T) {
	dir := t.TempDir()
	corner := writeFile(t, dir, "corner.shape",
		"let c = rect0[x: 0, y: 0, width: 1, height: 1];\nexport c as tl;\nexport finish;\n")

	center := func(t *testing.T, args ...string) uint32 {
		t.Helper()

		args = append([]string{
			"render", "--width", "30", "--height", "30", "--margin", "0",
			"--fill", "#fff", "--background", "#000",
		}, args...)

		res, err := execute(t, "", append(args, corner)...)
		if err != nil {
			t.Fatalf("render: %v", err)
		}

		img, err := png.Decode(bytes.NewReader(res.stdout.Bytes()))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}

		r, _, _, _ := img.At(15, 15).RGBA()

		return r
	}

	// Laid out, the corner keeps its 1px size and the center stays blank.
	if r := center(t); r != 0 {
		t.Errorf("laid out: center red = %#x, want background", r)
	}

	// Flattened, the lone corner becomes the whole shape and fills the canvas.
	if r := center(t, "--flatten"); r != 0xffff {
		t.Errorf("flattened: center red = %#x, want fill", r)
	}
}
