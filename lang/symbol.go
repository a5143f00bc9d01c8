package lang

import "strconv"

// GlobalScope is the scope of top-level variables and inputs.
const GlobalScope = "function"

// Symbol indexes a (scope, name) pair interned in a [Symbols] table.
// Variable environments are slices indexed by Symbol.
type Symbol int32

// NoSymbol marks identifiers that do not name a variable, such as
// the field in a member access.
const NoSymbol Symbol = -1

type symbolKey struct {
	scope string
	name  string
}

// Symbols interns scoped variable names.
// The zero value is ready to use.
type Symbols struct {
	index map[symbolKey]Symbol
	keys  []symbolKey
}

// Intern returns the symbol for name in scope, allocating one if needed.
func (t *Symbols) Intern(scope, name string) Symbol {
	k := symbolKey{scope: scope, name: name}

	if s, ok := t.index[k]; ok {
		return s
	}

	if t.index == nil {
		t.index = make(map[symbolKey]Symbol)
	}

	s := Symbol(len(t.keys))
	t.index[k] = s
	t.keys = append(t.keys, k)

	return s
}

// Lookup returns the symbol for name in scope without allocating.
func (t *Symbols) Lookup(scope, name string) (Symbol, bool) {
	s, ok := t.index[symbolKey{scope: scope, name: name}]

	return s, ok
}

// Len returns the number of interned symbols.
func (t *Symbols) Len() int { return len(t.keys) }

// Name returns the unscoped name of s.
func (t *Symbols) Name(s Symbol) string { return t.key(s).name }

// Global reports whether s belongs to [GlobalScope].
func (t *Symbols) Global(s Symbol) bool { return t.key(s).scope == GlobalScope }

// Mangled returns the scope-qualified name of s, "scope_name".
func (t *Symbols) Mangled(s Symbol) string {
	k := t.key(s)

	return k.scope + "_" + k.name
}

func (t *Symbols) key(s Symbol) symbolKey {
	if s < 0 || int(s) >= len(t.keys) {
		return symbolKey{name: "$" + strconv.Itoa(int(s))}
	}

	return t.keys[s]
}
