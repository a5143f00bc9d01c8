package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/shapescript/lang"
)

// ctrlCommands are the words accepted in command mode.
var ctrlCommands = []string{
	"help", "vars", "funcs", "builtins", "load", "edit", "reset", "clear", "quit",
}

// memberNames are the components selectable from a Vec2 with ".".
var memberNames = []string{"x", "y"}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier under cursor and its byte offsets in
// input. The word is empty when the cursor is not touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, n := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= n
	}

	end = cursor
	for end < len(input) {
		r, n := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += n
	}

	return input[start:end], start, end
}

// afterMember reports whether the word starting at wordStart follows a
// member-access dot. A dot ending a number literal is a decimal point.
func afterMember(input string, wordStart int) bool {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return false
	}

	prefix = prefix[:len(prefix)-1]
	if prefix == "" {
		return false
	}

	switch r, _ := utf8.DecodeLastRuneInString(prefix); {
	case r == ']' || r == ')':
		return true
	case !isIdentRune(r):
		return false
	}

	w, _, _ := wordBounds(prefix, len(prefix))
	r, _ := utf8.DecodeRuneInString(w)

	return !unicode.IsDigit(r)
}

// evalCandidates returns every name that can begin an expression or
// statement in s: reserved words, built-ins, user functions, and bound
// variables.
func evalCandidates(s *lang.Session) []string {
	set := make(map[string]struct{})

	for _, k := range lang.Keywords() {
		set[k] = struct{}{}
	}

	for _, name := range lang.BuiltinNames() {
		set[name] = struct{}{}
	}

	if s != nil {
		for _, name := range s.Functions() {
			set[name] = struct{}{}
		}

		for name := range s.Vars() {
			set[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(set))
}

// computeMatches ranks completion candidates against the word under the
// cursor. An empty word yields no matches except after a member dot, where
// all members are offered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, ws, we := wordBounds(input, m.input.Position())

	var candidates []string

	switch {
	case m.mode == modeCtrl:
		candidates = ctrlCommands
	case afterMember(input, ws):
		candidates = memberNames

		if word == "" {
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, ws, we
		}
	default:
		candidates = evalCandidates(m.session)
	}

	if word == "" {
		return nil, ws, we
	}

	return fuzzy.Find(word, candidates), ws, we
}

// renderCandidateBar lays matches out on one line no wider than width,
// eliding the tail once space runs out.
func renderCandidateBar(
	matches fuzzy.Matches,
	session *lang.Session,
	selected int,
	tabbing bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	more := hintStyle.Render("...")
	reserve := lipgloss.Width(more) + len(sep)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		item := renderCandidate(match, isCallable(session, match.Str), tabbing && i == selected)
		w := lipgloss.Width(item)

		if i > 0 {
			w += len(sep)

			if used+w+reserve > width && i < len(matches)-1 {
				b.WriteString(sep)
				b.WriteString(more)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

// renderCandidate highlights the runes of match that matched the typed
// word. Callables carry a "[]" suffix that is not inserted on completion.
func renderCandidate(match fuzzy.Match, callable, selected bool) string {
	base, hit := suggestionStyle, matchStyle
	if selected {
		base, hit = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if callable {
		b.WriteString(base.Render("[]"))
	}

	return b.String()
}

func isCallable(s *lang.Session, name string) bool {
	if _, ok := lang.LookupBuiltin(name); ok {
		return true
	}

	if s == nil {
		return false
	}

	_, ok := s.Function(name)

	return ok
}
