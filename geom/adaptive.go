package geom

import (
	"iter"
	"strconv"
	"strings"
)

// Slot names one region of a 9-slice [Adaptive] shape.
type Slot int

// Slots are ordered as they are listed by an adaptive export.
const (
	SlotBottomLeft Slot = iota
	SlotLeft
	SlotTopLeft
	SlotTop
	SlotTopRight
	SlotRight
	SlotBottomRight
	SlotBottom
	SlotCenter
)

// SlotCount is the number of regions in an [Adaptive] shape.
const SlotCount = 9

var slotName = [SlotCount][2]string{
	{"bl", "bottom_left"},
	{"l", "left"},
	{"tl", "top_left"},
	{"t", "top"},
	{"tr", "top_right"},
	{"r", "right"},
	{"br", "bottom_right"},
	{"b", "bottom"},
	{"c", "center"},
}

// String returns the short slot name.
func (s Slot) String() string {
	if s < 0 || int(s) >= SlotCount {
		return "Slot(" + strconv.Itoa(int(s)) + ")"
	}

	return slotName[s][0]
}

// Long returns the descriptive slot name.
func (s Slot) Long() string {
	if s < 0 || int(s) >= SlotCount {
		return s.String()
	}

	return slotName[s][1]
}

// ParseSlot resolves a short or long slot name, ignoring case.
func ParseSlot(name string) (Slot, bool) {
	name = strings.ToLower(name)
	for i, n := range slotName {
		if name == n[0] || name == n[1] {
			return Slot(i), true
		}
	}

	return 0, false
}

// Slots returns an iterator over all slots in export order.
func Slots() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for i := range SlotCount {
			if !yield(Slot(i)) {
				return
			}
		}
	}
}

// Adaptive is a 9-slice shape bundle. Corners keep their size, edges
// stretch along one axis, and the center fills the remaining space.
// Any slot may be nil.
type Adaptive struct {
	Parts [SlotCount]*Shape
}

// NewAdaptive returns an adaptive shape over parts, refreshing each extent.
func NewAdaptive(parts [SlotCount]*Shape) *Adaptive {
	for _, p := range parts {
		if p != nil {
			p.Recompute()
		}
	}

	return &Adaptive{Parts: parts}
}

// Get returns the shape in slot s, or nil.
func (a *Adaptive) Get(s Slot) *Shape { return a.Parts[s] }

// Set stores shape in slot s.
func (a *Adaptive) Set(s Slot, shape *Shape) {
	if shape != nil {
		shape.Recompute()
	}

	a.Parts[s] = shape
}

// Filled returns the number of non-nil slots.
func (a *Adaptive) Filled() int {
	n := 0

	for _, p := range a.Parts {
		if p != nil {
			n++
		}
	}

	return n
}

// Placement is a slot shape positioned by [Adaptive.Layout].
type Placement struct {
	Shape *Shape
	Rect  Rect
	Slot  Slot
}

// Layout positions every non-nil slot inside r and returns the placements
// in corner, edge, center order. Each placement's shape is remapped into
// its rectangle.
func (a *Adaptive) Layout(r Rect) []Placement {
	size := func(s Slot) (float64, float64) {
		if p := a.Parts[s]; p != nil {
			return p.Extent.Width, p.Extent.Height
		}

		return 0, 0
	}

	tlw, tlh := size(SlotTopLeft)
	trw, trh := size(SlotTopRight)
	blw, blh := size(SlotBottomLeft)
	brw, brh := size(SlotBottomRight)

	x, y, w, h := r.X, r.Y, r.Width, r.Height

	rects := [SlotCount]Rect{
		SlotTopLeft:     {x, y, tlw, tlh},
		SlotTopRight:    {x + w - trw, y, trw, trh},
		SlotBottomLeft:  {x, y + h - blh, blw, blh},
		SlotBottomRight: {x + w - brw, y + h - brh, brw, brh},
		SlotCenter:      {x + tlw, y + tlh, w - tlw - trw, h - tlh - blh},
	}

	if p := a.Parts[SlotTop]; p != nil {
		rects[SlotTop] = Rect{x + tlw, y, w - tlw - trw, p.Extent.Height}
	}

	if p := a.Parts[SlotBottom]; p != nil {
		eh := p.Extent.Height
		rects[SlotBottom] = Rect{x + blw, y + h - eh, w - blw - brw, eh}
	}

	if p := a.Parts[SlotLeft]; p != nil {
		rects[SlotLeft] = Rect{x, y + tlh, p.Extent.Width, h - tlh - blh}
	}

	if p := a.Parts[SlotRight]; p != nil {
		ew := p.Extent.Width
		rects[SlotRight] = Rect{x + w - ew, y + trh, ew, h - trh - brh}
	}

	order := [SlotCount]Slot{
		SlotTopLeft, SlotTopRight, SlotBottomLeft, SlotBottomRight,
		SlotTop, SlotBottom, SlotLeft, SlotRight,
		SlotCenter,
	}

	out := make([]Placement, 0, a.Filled())

	for _, s := range order {
		p := a.Parts[s]
		if p == nil {
			continue
		}

		out = append(out, Placement{Shape: p.Remap(rects[s]), Rect: rects[s], Slot: s})
	}

	return out
}

// Flatten lays a out inside r and combines every placement into one shape.
func (a *Adaptive) Flatten(r Rect) *Shape {
	s := NewIndexed(nil, nil)
	for _, p := range a.Layout(r) {
		s.Combine(p.Shape)
	}

	return s
}
