package lang

import (
	"iter"
	"slices"

	"github.com/ardnew/shapescript/geom"
)

// Program is a parsed script. It is immutable once returned by the parser
// and may be run any number of times, concurrently.
type Program struct {
	Stmts     []Stmt
	Functions map[string]*Function
	Symbols   *Symbols
	Inputs    []*InputStmt
	cfg       config
}

// Function returns the user function named name.
func (p *Program) Function(name string) (*Function, bool) {
	f, ok := p.Functions[name]

	return f, ok
}

// AllFunctions returns an iterator over user functions in declaration order.
func (p *Program) AllFunctions() iter.Seq[*Function] {
	return func(yield func(*Function) bool) {
		for _, s := range p.Stmts {
			if fs, ok := s.(*FunctionStmt); ok && !yield(fs.Func) {
				return
			}
		}
	}
}

// Function is a user-defined function. Its parameters and locals live in
// a scope named after the function.
type Function struct {
	Body   Stmt
	Name   string
	Params []Param
	Locals []Symbol
	Pos    Position
}

// Param declares a typed function or built-in parameter.
type Param struct {
	Name     string `json:"name"               yaml:"name"`
	Type     Type   `json:"type"               yaml:"type"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Sym      Symbol `json:"-"                  yaml:"-"`
}

// Signature renders f as it would be called.
func (f *Function) Signature() string { return signature(f.Name, f.Params, false) }

// Param returns the parameter named name.
func (f *Function) Param(name string) (Param, bool) {
	i := slices.IndexFunc(f.Params, func(p Param) bool { return p.Name == name })
	if i < 0 {
		return Param{}, false
	}

	return f.Params[i], true
}

// Node is any syntax tree element.
type Node interface {
	Position() Position
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

type (
	// BlockStmt is ": stmt* end;". Lets lists the variables declared
	// directly in the block; they are unbound when the block exits.
	BlockStmt struct {
		Stmts []Stmt
		Lets  []Symbol
		Pos   Position
	}

	// LetStmt declares a new variable.
	LetStmt struct {
		Value Expr
		Name  string
		Sym   Symbol
		Pos   Position
	}

	// AssignStmt rebinds an existing variable. Compound forms are
	// desugared so that Value already includes the current binding.
	AssignStmt struct {
		Value Expr
		Name  string
		Sym   Symbol
		Pos   Position
	}

	// ForStmt is "for v in begin[end: e, start: s, step: d] body".
	ForStmt struct {
		Start Expr
		End   Expr
		Step  Expr
		Body  Stmt
		Var   string
		Lets  []Symbol
		Sym   Symbol
		Pos   Position
	}

	// WhileStmt repeats Body while Cond is true.
	WhileStmt struct {
		Cond Expr
		Body Stmt
		Lets []Symbol
		Pos  Position
	}

	// IfStmt runs Then or Else. Else is a [NopStmt] when absent.
	IfStmt struct {
		Cond Expr
		Then Stmt
		Else Stmt
		Pos  Position
	}

	// InputStmt declares a host-provided global.
	InputStmt struct {
		Default Expr
		Name    string
		Type    Type
		Sym     Symbol
		Pos     Position
	}

	// ExportStmt terminates the program with a single shape.
	ExportStmt struct {
		Value Expr
		Pos   Position
	}

	// ExportAdaptiveStmt terminates the program with nine slot shapes,
	// in [geom.Slots] order. An [EmptyExpr] leaves its slot empty.
	ExportAdaptiveStmt struct {
		Parts [geom.SlotCount]Expr
		Pos   Position
	}

	// ExportSlotStmt fills one adaptive slot. The program terminates once
	// every slot is filled or on [ExportFinishStmt].
	ExportSlotStmt struct {
		Value Expr
		Slot  geom.Slot
		Pos   Position
	}

	// ExportFinishStmt terminates the program with the slots exported
	// so far.
	ExportFinishStmt struct {
		Pos Position
	}

	// BreakStmt exits the innermost loop.
	BreakStmt struct {
		Pos Position
	}

	// ContinueStmt skips to the next iteration of the innermost loop.
	ContinueStmt struct {
		Pos Position
	}

	// ReturnStmt leaves the current function with an optional value.
	ReturnStmt struct {
		Value Expr
		Pos   Position
	}

	// FunctionStmt marks where a function was declared. It does nothing
	// when executed.
	FunctionStmt struct {
		Func *Function
	}

	// ExprStmt evaluates an expression for its side effects.
	ExprStmt struct {
		X Expr
	}

	// NopStmt does nothing.
	NopStmt struct {
		Pos Position
	}
)

type (
	// ShapeExpr builds a shape from the vertices its body emits.
	ShapeExpr struct {
		Mode Expr
		Body *BlockStmt
		Pos  Position
	}

	// CallExpr calls a built-in or user function. Args holds named
	// arguments; an unnamed argument is keyed by "_". Order lists the
	// keys in source order.
	CallExpr struct {
		Args  map[string]Expr
		Name  string
		Order []string
		Pos   Position
	}

	// UnaryExpr applies a prefix operator.
	UnaryExpr struct {
		X   Expr
		Op  Operator
		Pos Position
	}

	// BinaryExpr applies an infix operator. For [OpDot] the right
	// operand is an [IdentExpr] holding the field name.
	BinaryExpr struct {
		L   Expr
		R   Expr
		Op  Operator
		Pos Position
	}

	// IdentExpr references a variable, or names a field when Sym is
	// [NoSymbol].
	IdentExpr struct {
		Name string
		Sym  Symbol
		Pos  Position
	}

	// NumberExpr is a numeric literal.
	NumberExpr struct {
		Value float64
		Pos   Position
	}

	// BoolExpr is true or false.
	BoolExpr struct {
		Value bool
		Pos   Position
	}

	// Vec2Expr is "[x, y]".
	Vec2Expr struct {
		X   Expr
		Y   Expr
		Pos Position
	}

	// TypeExpr is "type[x, T]" and yields whether x has type T.
	TypeExpr struct {
		X    Expr
		Type Type
		Pos  Position
	}

	// EmptyExpr is "#" or "null".
	EmptyExpr struct {
		Pos Position
	}
)

func (s *BlockStmt) Position() Position          { return s.Pos }
func (s *LetStmt) Position() Position            { return s.Pos }
func (s *AssignStmt) Position() Position         { return s.Pos }
func (s *ForStmt) Position() Position            { return s.Pos }
func (s *WhileStmt) Position() Position          { return s.Pos }
func (s *IfStmt) Position() Position             { return s.Pos }
func (s *InputStmt) Position() Position          { return s.Pos }
func (s *ExportStmt) Position() Position         { return s.Pos }
func (s *ExportAdaptiveStmt) Position() Position { return s.Pos }
func (s *ExportSlotStmt) Position() Position     { return s.Pos }
func (s *ExportFinishStmt) Position() Position   { return s.Pos }
func (s *BreakStmt) Position() Position          { return s.Pos }
func (s *ContinueStmt) Position() Position       { return s.Pos }
func (s *ReturnStmt) Position() Position         { return s.Pos }
func (s *FunctionStmt) Position() Position       { return s.Func.Pos }
func (s *ExprStmt) Position() Position           { return s.X.Position() }
func (s *NopStmt) Position() Position            { return s.Pos }

func (*BlockStmt) stmt()          {}
func (*LetStmt) stmt()            {}
func (*AssignStmt) stmt()         {}
func (*ForStmt) stmt()            {}
func (*WhileStmt) stmt()          {}
func (*IfStmt) stmt()             {}
func (*InputStmt) stmt()          {}
func (*ExportStmt) stmt()         {}
func (*ExportAdaptiveStmt) stmt() {}
func (*ExportSlotStmt) stmt()     {}
func (*ExportFinishStmt) stmt()   {}
func (*BreakStmt) stmt()          {}
func (*ContinueStmt) stmt()       {}
func (*ReturnStmt) stmt()         {}
func (*FunctionStmt) stmt()       {}
func (*ExprStmt) stmt()           {}
func (*NopStmt) stmt()            {}

func (e *ShapeExpr) Position() Position  { return e.Pos }
func (e *CallExpr) Position() Position   { return e.Pos }
func (e *UnaryExpr) Position() Position  { return e.Pos }
func (e *BinaryExpr) Position() Position { return e.Pos }
func (e *IdentExpr) Position() Position  { return e.Pos }
func (e *NumberExpr) Position() Position { return e.Pos }
func (e *BoolExpr) Position() Position   { return e.Pos }
func (e *Vec2Expr) Position() Position   { return e.Pos }
func (e *TypeExpr) Position() Position   { return e.Pos }
func (e *EmptyExpr) Position() Position  { return e.Pos }

func (*ShapeExpr) expr()  {}
func (*CallExpr) expr()   {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*IdentExpr) expr()  {}
func (*NumberExpr) expr() {}
func (*BoolExpr) expr()   {}
func (*Vec2Expr) expr()   {}
func (*TypeExpr) expr()   {}
func (*EmptyExpr) expr()  {}
