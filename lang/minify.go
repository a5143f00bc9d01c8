package lang

import (
	"io"
	"strings"
)

// Minify writes p on a single line with user variables, parameters, and
// functions renamed to the shortest free identifiers. Inputs keep their
// names so hosts can still bind them, as do built-ins and their argument
// names.
func (p *Program) Minify(w io.Writer) error {
	reserved := map[string]bool{"finish": true}

	builtins := make(map[string]bool)
	for _, name := range BuiltinNames() {
		builtins[name] = true
		reserved[name] = true
	}

	inputs := make(map[string]bool, len(p.Inputs))
	for _, in := range p.Inputs {
		inputs[in.Name] = true
		reserved[in.Name] = true
	}

	vars := make(map[string]string)
	next := keyGen(reserved)

	for i := range p.Symbols.Len() {
		name := p.Symbols.Name(Symbol(i))
		if _, ok := vars[name]; !ok && !inputs[name] {
			vars[name] = next()
		}
	}

	funcs := make(map[string]string)
	nextFn := keyGen(reserved)

	for f := range p.AllFunctions() {
		funcs[f.Name] = nextFn()
	}

	pr := &printer{
		builtins: builtins,
		vars: func(name string) string {
			if k, ok := vars[name]; ok {
				return k
			}

			return name
		},
		funcs: func(name string) string {
			if k, ok := funcs[name]; ok {
				return k
			}

			return name
		},
	}

	return pr.program(w, p)
}

// keyGen returns a generator of identifiers "a", "b", ..., "z", "aa", ...
// skipping keywords and reserved names.
func keyGen(reserved map[string]bool) func() string {
	n := 0

	return func() string {
		for {
			k := key(n)
			n++

			if !reserved[k] && !IsKeyword(k) {
				return k
			}
		}
	}
}

// key encodes n in bijective base 26 over the lowercase letters.
func key(n int) string {
	var sb strings.Builder

	for n++; n > 0; n = (n - 1) / 26 {
		sb.WriteByte(byte('a' + (n-1)%26))
	}

	b := []byte(sb.String())
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	return string(b)
}
