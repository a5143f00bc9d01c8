package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/shapescript/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_operator", "a + fo", 6, "fo", 4, 6},
		{"after_bracket", "hypot[x: fo", 11, "fo", 9, 11},
		{"after_comma", "hypot[x: 1, y", 13, "y", 12, 13},
		{"member", "at.x", 4, "x", 3, 4},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"underscore", "deg_to", 6, "deg_to", 0, 6},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestAfterMember(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"at.", true},
		{"at.x", true},
		{"[1, 2].", true},
		{"f[].", true},
		{"1.", false},
		{"x + 1.5", false},
		{".", false},
		{"a + ", false},
	}

	for _, tt := range tests {
		_, start, _ := wordBounds(tt.input, len(tt.input))
		if got := afterMember(tt.input, start); got != tt.want {
			t.Errorf("afterMember(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEvalCandidates(t *testing.T) {
	s := lang.NewSession(nil)

	if _, _, err := s.Eval(t.Context(), "let width = 2; function area[h: Number] return width * h;"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := evalCandidates(s)

	for _, want := range []string{"let", "export", "hypot", "rect0", "width", "area"} {
		if !slices.Contains(got, want) {
			t.Errorf("missing candidate %q", want)
		}
	}

	if !slices.IsSorted(got) {
		t.Error("candidates not sorted")
	}

	if c := slices.Compact(slices.Clone(got)); len(c) != len(got) {
		t.Error("duplicate candidates")
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  string
	}{
		{"builtin", modeEval, "hypo", "hypot"},
		{"keyword", modeEval, "expo", "export"},
		{"member", modeEval, "v.", "x"},
		{"command", modeCtrl, "bui", "builtins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t.Context(), Config{}, NewHistory(""))
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _ := m.computeMatches()
			if len(matches) == 0 {
				t.Fatalf("no matches for %q", tt.input)
			}

			if matches[0].Str != tt.want {
				t.Errorf("first match = %q, want %q", matches[0].Str, tt.want)
			}
		})
	}
}

func TestComputeMatches_EmptyWord(t *testing.T) {
	m := newModel(t.Context(), Config{}, NewHistory(""))
	m.input.SetValue("a + ")
	m.input.SetCursor(4)

	if matches, _, _ := m.computeMatches(); matches != nil {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestRenderCandidateBar_Width(t *testing.T) {
	m := newModel(t.Context(), Config{}, NewHistory(""))
	m.input.SetValue("r")
	m.input.SetCursor(1)
	m.refresh(false)

	if len(m.matches) < 2 {
		t.Fatalf("expected several matches, got %d", len(m.matches))
	}

	if bar := renderCandidateBar(m.matches, m.session, -1, false, 0); bar != "" {
		t.Errorf("zero width bar = %q", bar)
	}

	if bar := renderCandidateBar(m.matches, m.session, -1, false, 20); bar == "" {
		t.Error("empty bar")
	}
}
