package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Disabled(t *testing.T) {
	tests := []Profiler{
		{},
		{Mode: "bogus"},
		{Dir: t.TempDir(), Quiet: true},
	}

	for _, p := range tests {
		if p.Enabled() {
			t.Errorf("%+v reported enabled", p)
		}

		s := p.Start()
		if s == nil {
			t.Fatalf("%+v returned nil Stopper", p)
		}

		s.Stop()
	}
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("modes not sorted: %v", m)
	}
}
