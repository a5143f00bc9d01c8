package geom

import "testing"

func TestParseSlot(t *testing.T) {
	tests := []struct {
		name string
		want Slot
		ok   bool
	}{
		{"bl", SlotBottomLeft, true},
		{"left", SlotLeft, true},
		{"TOP_LEFT", SlotTopLeft, true},
		{"t", SlotTop, true},
		{"top_right", SlotTopRight, true},
		{"r", SlotRight, true},
		{"bottom_right", SlotBottomRight, true},
		{"b", SlotBottom, true},
		{"center", SlotCenter, true},
		{"middle", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSlot(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseSlot(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSlots_Order(t *testing.T) {
	want := []string{"bl", "l", "tl", "t", "tr", "r", "br", "b", "c"}

	i := 0
	for s := range Slots() {
		if s.String() != want[i] {
			t.Errorf("slot %d = %s, want %s", i, s, want[i])
		}
		i++
	}

	if i != SlotCount {
		t.Errorf("iterated %d slots, want %d", i, SlotCount)
	}
}

func TestAdaptive_Layout(t *testing.T) {
	corner := func() *Shape { return Rectangle(0, 0, 10, 10) }

	var parts [SlotCount]*Shape

	parts[SlotTopLeft] = corner()
	parts[SlotTopRight] = corner()
	parts[SlotBottomLeft] = corner()
	parts[SlotBottomRight] = corner()
	parts[SlotTop] = Rectangle(0, 0, 1, 10)
	parts[SlotLeft] = Rectangle(0, 0, 10, 1)
	parts[SlotCenter] = Rectangle(0, 0, 1, 1)

	a := NewAdaptive(parts)
	if a.Filled() != 7 {
		t.Fatalf("filled = %d, want 7", a.Filled())
	}

	got := make(map[Slot]Rect)
	for _, p := range a.Layout(Rect{0, 0, 100, 50}) {
		got[p.Slot] = p.Rect

		if p.Shape.Extent != p.Rect {
			t.Errorf("%s: shape extent %v not remapped to %v", p.Slot, p.Shape.Extent, p.Rect)
		}
	}

	want := map[Slot]Rect{
		SlotTopLeft:     {0, 0, 10, 10},
		SlotTopRight:    {90, 0, 10, 10},
		SlotBottomLeft:  {0, 40, 10, 10},
		SlotBottomRight: {90, 40, 10, 10},
		SlotTop:         {10, 0, 80, 10},
		SlotLeft:        {0, 10, 10, 30},
		SlotCenter:      {10, 10, 80, 30},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d placements, want %d", len(got), len(want))
	}

	for s, r := range want {
		if got[s] != r {
			t.Errorf("%s: rect = %v, want %v", s, got[s], r)
		}
	}
}

func TestAdaptive_Flatten(t *testing.T) {
	var parts [SlotCount]*Shape

	parts[SlotTopLeft] = Rectangle(0, 0, 10, 10)
	parts[SlotBottomRight] = Rectangle(0, 0, 10, 10)
	parts[SlotCenter] = Rectangle(0, 0, 1, 1)

	a := NewAdaptive(parts)
	s := a.Flatten(Rect{0, 0, 100, 50})

	if s.Extent != (Rect{0, 0, 100, 50}) {
		t.Errorf("extent = %v, want the layout rect", s.Extent)
	}

	var tris int
	for range s.Triangles() {
		tris++
	}

	if tris != 3*2 {
		t.Errorf("got %d triangles, want one rectangle per filled slot", tris)
	}

	if s := (&Adaptive{}).Flatten(Rect{0, 0, 10, 10}); len(s.Vertices) != 0 {
		t.Errorf("empty adaptive flattened to %d vertices", len(s.Vertices))
	}
}

func TestAdaptive_Digest(t *testing.T) {
	var a, b Adaptive

	a.Set(SlotCenter, Rectangle(0, 0, 1, 1))
	b.Set(SlotLeft, Rectangle(0, 0, 1, 1))

	if a.Digest() == b.Digest() {
		t.Error("slot position does not affect digest")
	}
}
