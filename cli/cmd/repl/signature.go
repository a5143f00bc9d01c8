package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/shapescript/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
)

// call describes the innermost unclosed "name[" enclosing the cursor.
type call struct {
	name     string
	argIndex int
}

// enclosingCall scans input up to cursor for the innermost open call
// bracket. Brackets not preceded by an identifier are vector literals and
// are skipped as a unit. Parentheses nest but never start a call.
func enclosingCall(input string, cursor int) (call, bool) {
	cursor = min(max(cursor, 0), len(input))

	type frame struct {
		name  string
		args  int
		paren bool
	}

	var stack []frame

	for i := 0; i < cursor; i++ {
		switch input[i] {
		case '/':
			if i+1 < cursor && input[i+1] == '/' {
				return call{}, false
			}
		case '(':
			stack = append(stack, frame{paren: true})
		case '[':
			name, _, _ := wordBounds(input[:i], i)
			if lang.IsKeyword(name) {
				name = ""
			}

			stack = append(stack, frame{name: name})
		case ')', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if f := stack[i]; !f.paren {
			if f.name == "" {
				return call{}, false
			}

			return call{name: f.name, argIndex: f.args}, true
		}
	}

	return call{}, false
}

// lookupParams resolves name to a built-in or a function declared in s.
func lookupParams(s *lang.Session, name string) ([]lang.Param, bool, bool) {
	if b, ok := lang.LookupBuiltin(name); ok {
		return b.Params, b.Variadic, true
	}

	if s != nil {
		if fn, ok := s.Function(name); ok {
			return fn.Params, false, true
		}
	}

	return nil, false, false
}

// renderSignatureHint renders the signature of c.name with the argument at
// c.argIndex highlighted. It returns "" if c.name is not callable.
func renderSignatureHint(s *lang.Session, c call) string {
	params, variadic, ok := lookupParams(s, c.name)
	if !ok {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(c.name))
	b.WriteString(signatureStyle.Render("["))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		text := p.Name
		if p.Optional {
			text += "?"
		}

		text += ": " + p.Type.Keyword()

		if i == c.argIndex || (variadic && i == len(params)-1 && c.argIndex > i) {
			b.WriteString(currentParamStyle.Render(text))
		} else {
			b.WriteString(signatureStyle.Render(text))
		}
	}

	if variadic {
		b.WriteString(signatureStyle.Render("..."))
	}

	b.WriteString(signatureStyle.Render("]"))

	if bi, ok := lang.LookupBuiltin(c.name); ok && bi.Doc != "" {
		b.WriteString("  ")
		b.WriteString(hintStyle.Render(bi.Doc))
	}

	return b.String()
}
