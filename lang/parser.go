package lang

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/shapescript/geom"
)

// Parse parses src into a [Program] without consulting the cache.
func Parse(ctx context.Context, src string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "parse start", slog.Int("source_length", len(src)))

	st := newParseState()

	prog, err := newParser(src, cfg, st).parseProgram()
	if err != nil {
		cfg.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("statements", len(prog.Stmts)),
		slog.Int("functions", len(prog.Functions)),
		slog.Int("symbols", prog.Symbols.Len()))

	return prog, nil
}

// parseState is the parser state that outlives a single source text.
// A [Session] reuses one across evaluations.
type parseState struct {
	syms   *Symbols
	funcs  map[string]*Function
	inputs map[string]bool
}

func newParseState() *parseState {
	return &parseState{
		syms:   new(Symbols),
		funcs:  make(map[string]*Function),
		inputs: make(map[string]bool),
	}
}

// snapshot returns a copy of the function and input tables.
// Symbols only grow, so they are shared.
func (s *parseState) snapshot() *parseState {
	return &parseState{
		syms:   s.syms,
		funcs:  maps.Clone(s.funcs),
		inputs: maps.Clone(s.inputs),
	}
}

type parser struct {
	lex    *Lexer
	state  *parseState
	fn     *Function
	locals map[string]bool
	blocks []*BlockStmt
	cfg    config
	depth  int
}

func newParser(src string, cfg config, st *parseState) *parser {
	return &parser{
		lex:   NewLexer(src),
		state: st,
		cfg:   cfg,
	}
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{
		Functions: p.state.funcs,
		Symbols:   p.state.syms,
		cfg:       p.cfg,
	}

	for {
		t := p.lex.Peek()
		if t.Kind == KindEOF {
			break
		}

		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		prog.Stmts = append(prog.Stmts, s)

		if in, ok := s.(*InputStmt); ok {
			prog.Inputs = append(prog.Inputs, in)
		}
	}

	return prog, nil
}

// Statements

func (p *parser) parseStmt() (Stmt, error) {
	t := p.lex.Next()

	if err := p.enter(t.Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	switch t.Kind {
	case KindColon:
		return p.parseBlock(t.Pos)

	case KindIdent:
		s, err := p.parseAssign(t)
		if s != nil || err != nil {
			return s, err
		}

	case KindKeyword:
		switch t.Keyword {
		case KeywordLet:
			return p.parseLet(t.Pos)
		case KeywordFor:
			return p.parseFor(t.Pos)
		case KeywordWhile:
			return p.parseWhile(t.Pos)
		case KeywordIf:
			return p.parseIf(t.Pos)
		case KeywordExport:
			return p.parseExport(t.Pos)
		case KeywordInput:
			return p.parseInput(t.Pos)
		case KeywordReturn:
			return p.parseReturn(t.Pos)
		case KeywordFunction:
			return p.parseFunction(t.Pos)
		case KeywordBreak:
			return &BreakStmt{Pos: t.Pos}, p.expect(KindSemicolon)
		case KeywordContinue:
			return &ContinueStmt{Pos: t.Pos}, p.expect(KindSemicolon)
		}
	}

	p.lex.Putback(t)

	x, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	return &ExprStmt{X: x}, p.expect(KindSemicolon)
}

func (p *parser) parseBlock(pos Position) (*BlockStmt, error) {
	b := &BlockStmt{Pos: pos}

	p.blocks = append(p.blocks, b)
	defer func() { p.blocks = p.blocks[:len(p.blocks)-1] }()

	for {
		t := p.lex.Next()
		if t.Is(KeywordEnd) {
			break
		}

		if t.Kind == KindEOF {
			return nil, p.unexpected(t, "'end'")
		}

		p.lex.Putback(t)

		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		b.Stmts = append(b.Stmts, s)
	}

	return b, p.expect(KindSemicolon)
}

// parseAssign parses "name = e;" and "name op= e;". It returns a nil
// statement, consuming nothing, when t does not start an assignment.
func (p *parser) parseAssign(t Token) (Stmt, error) {
	n := p.lex.Next()
	if !n.IsOp(OpAssign) && n.Kind != KindOperatorAssign {
		p.lex.Putback(n)

		return nil, nil
	}

	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	sym := p.resolve(t.Text)

	if n.Kind == KindOperatorAssign {
		value = &BinaryExpr{
			Op:  n.Op,
			L:   &IdentExpr{Name: t.Text, Sym: sym, Pos: t.Pos},
			R:   value,
			Pos: n.Pos,
		}
	}

	return &AssignStmt{Name: t.Text, Sym: sym, Value: value, Pos: t.Pos}, p.expect(KindSemicolon)
}

func (p *parser) parseLet(pos Position) (Stmt, error) {
	name, err := p.ident("variable name")
	if err != nil {
		return nil, err
	}

	if err := p.expectOp(OpAssign); err != nil {
		return nil, err
	}

	var value Expr

	if t := p.lex.Next(); t.Is(KeywordBegin) {
		value, err = p.parseShape(t.Pos)
	} else {
		p.lex.Putback(t)

		value, err = p.parseExpr(0)
		if err == nil {
			err = p.expect(KindSemicolon)
		}
	}

	if err != nil {
		return nil, err
	}

	sym := p.declare(name.Text)

	if n := len(p.blocks); n > 0 {
		p.blocks[n-1].Lets = append(p.blocks[n-1].Lets, sym)
	}

	return &LetStmt{Name: name.Text, Sym: sym, Value: value, Pos: pos}, nil
}

// parseShape parses "begin[mode] : ... end;" following a let.
func (p *parser) parseShape(pos Position) (Expr, error) {
	if err := p.expect(KindLBrack); err != nil {
		return nil, err
	}

	args, order, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	if len(order) != 1 {
		return nil, p.errorf(pos, "begin[] takes exactly one mode argument, found %d", len(order))
	}

	t := p.lex.Next()
	if t.Kind != KindColon {
		return nil, p.unexpected(t, "a block after begin[]")
	}

	body, err := p.parseBlock(t.Pos)
	if err != nil {
		return nil, err
	}

	return &ShapeExpr{Mode: args[order[0]], Body: body, Pos: pos}, nil
}

func (p *parser) parseFor(pos Position) (Stmt, error) {
	v, err := p.ident("loop variable")
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword(KeywordIn); err != nil {
		return nil, err
	}

	if err := p.expectKeyword(KeywordBegin); err != nil {
		return nil, err
	}

	if err := p.expect(KindLBrack); err != nil {
		return nil, err
	}

	args, order, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	for _, k := range order {
		if k != "start" && k != "end" && k != "step" {
			return nil, p.errorf(pos, "unknown begin[] field '%s'", k)
		}
	}

	s := &ForStmt{
		Start: args["start"],
		End:   args["end"],
		Step:  args["step"],
		Var:   v.Text,
		Pos:   pos,
	}

	if s.End == nil {
		return nil, p.errorf(pos, "the begin[] call requires an 'end' field")
	}

	if s.Start == nil {
		s.Start = &NumberExpr{Value: 0, Pos: pos}
	}

	if s.Step == nil {
		s.Step = &NumberExpr{Value: 1, Pos: pos}
	}

	s.Sym = p.declare(v.Text)

	if s.Body, s.Lets, err = p.parseBody(); err != nil {
		return nil, err
	}

	return s, nil
}

func (p *parser) parseWhile(pos Position) (Stmt, error) {
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	body, lets, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Cond: cond, Body: body, Lets: lets, Pos: pos}, nil
}

// parseBody parses a loop body as its own scope. A body that is not a
// block returns the variables it declares, which live for one iteration.
func (p *parser) parseBody() (Stmt, []Symbol, error) {
	scope := &BlockStmt{}

	p.blocks = append(p.blocks, scope)
	defer func() { p.blocks = p.blocks[:len(p.blocks)-1] }()

	s, err := p.parseStmt()

	return s, scope.Lets, err
}

func (p *parser) parseIf(pos Position) (Stmt, error) {
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	s := &IfStmt{Cond: cond, Then: then, Pos: pos}

	t := p.lex.Next()
	if !t.Is(KeywordElse) {
		p.lex.Putback(t)
		s.Else = &NopStmt{Pos: t.Pos}

		return s, nil
	}

	if s.Else, err = p.parseStmt(); err != nil {
		return nil, err
	}

	return s, nil
}

func (p *parser) parseExport(pos Position) (Stmt, error) {
	t := p.lex.Next()

	switch {
	case t.Is(KeywordAdaptive):
		return p.parseExportAdaptive(pos)

	case t.Kind == KindIdent && t.Text == "finish":
		n := p.lex.Next()
		if n.Kind == KindSemicolon {
			return &ExportFinishStmt{Pos: pos}, nil
		}

		p.lex.Putback(n)
	}

	p.lex.Putback(t)

	x, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	n := p.lex.Next()

	switch {
	case n.Kind == KindSemicolon:
		return &ExportStmt{Value: x, Pos: pos}, nil

	case n.Is(KeywordAs):
		name, err := p.ident("slot name")
		if err != nil {
			return nil, err
		}

		slot, ok := geom.ParseSlot(name.Text)
		if !ok {
			return nil, ErrParse.WithPosition(name.Pos).
				Wrap(ErrExportSlot.Wrapf("unknown slot '%s'", name.Text))
		}

		return &ExportSlotStmt{Value: x, Slot: slot, Pos: pos}, p.expect(KindSemicolon)
	}

	return nil, p.unexpected(n, "';' or 'as'")
}

func (p *parser) parseExportAdaptive(pos Position) (Stmt, error) {
	if err := p.expect(KindColon); err != nil {
		return nil, err
	}

	s := &ExportAdaptiveStmt{Pos: pos}

	for i := range s.Parts {
		if i > 0 {
			if err := p.expect(KindComma); err != nil {
				return nil, err
			}
		}

		x, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}

		s.Parts[i] = x
	}

	return s, p.expect(KindSemicolon)
}

func (p *parser) parseInput(pos Position) (Stmt, error) {
	if p.fn != nil || len(p.blocks) > 0 {
		return nil, p.errorf(pos, "inputs must be declared at top level")
	}

	name, err := p.ident("input name")
	if err != nil {
		return nil, err
	}

	if p.state.inputs[name.Text] {
		return nil, p.errorf(name.Pos, "duplicate input '%s'", name.Text)
	}

	if err := p.expect(KindColon); err != nil {
		return nil, err
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if typ == TypeShape {
		return nil, p.errorf(name.Pos, "input '%s' cannot have type Shape", name.Text)
	}

	s := &InputStmt{Name: name.Text, Type: typ, Pos: pos}

	if t := p.lex.Next(); t.IsOp(OpAssign) {
		if s.Default, err = p.parseExpr(0); err != nil {
			return nil, err
		}
	} else {
		p.lex.Putback(t)
	}

	p.state.inputs[name.Text] = true
	s.Sym = p.state.syms.Intern(GlobalScope, name.Text)

	return s, p.expect(KindSemicolon)
}

func (p *parser) parseReturn(pos Position) (Stmt, error) {
	if p.fn == nil {
		return nil, p.errorf(pos, "return outside a function")
	}

	t := p.lex.Next()
	if t.Kind == KindSemicolon {
		return &ReturnStmt{Pos: pos}, nil
	}

	p.lex.Putback(t)

	x, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	return &ReturnStmt{Value: x, Pos: pos}, p.expect(KindSemicolon)
}

func (p *parser) parseFunction(pos Position) (Stmt, error) {
	if p.fn != nil {
		return nil, p.errorf(pos, "functions cannot be nested")
	}

	if len(p.blocks) > 0 {
		return nil, p.errorf(pos, "functions must be declared at top level")
	}

	name, err := p.ident("function name")
	if err != nil {
		return nil, err
	}

	if _, dup := p.state.funcs[name.Text]; dup {
		return nil, ErrParse.WithPosition(name.Pos).
			Wrap(ErrDuplicateFunction.Wrapf("'%s' is already declared", name.Text))
	}

	if _, ok := LookupBuiltin(name.Text); ok {
		return nil, ErrParse.WithPosition(name.Pos).
			Wrap(ErrDuplicateFunction.Wrapf("'%s' is a built-in function", name.Text))
	}

	if err := p.expect(KindLBrack); err != nil {
		return nil, err
	}

	fn := &Function{Name: name.Text, Pos: pos}

	p.fn = fn
	p.locals = make(map[string]bool)

	defer func() {
		p.fn = nil
		p.locals = nil
	}()

	for {
		t := p.lex.Next()
		if t.Kind == KindRBrack {
			break
		}

		if len(fn.Params) > 0 {
			if t.Kind != KindComma {
				return nil, p.unexpected(t, "',' or ']'")
			}

			t = p.lex.Next()
		}

		if t.Kind != KindIdent {
			return nil, p.unexpected(t, "parameter name")
		}

		if _, dup := fn.Param(t.Text); dup {
			return nil, p.errorf(t.Pos, "duplicate parameter '%s'", t.Text)
		}

		if err := p.expect(KindColon); err != nil {
			return nil, err
		}

		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}

		fn.Params = append(fn.Params, Param{Name: t.Text, Type: typ, Sym: p.declare(t.Text)})
	}

	p.state.funcs[fn.Name] = fn

	if fn.Body, err = p.parseStmt(); err != nil {
		return nil, err
	}

	return &FunctionStmt{Func: fn}, nil
}

func (p *parser) parseType() (Type, error) {
	t := p.lex.Next()
	if t.Kind == KindKeyword {
		if typ, ok := typeOfKeyword(t.Keyword); ok {
			return typ, nil
		}
	}

	return TypeNull, p.unexpected(t, "a type")
}

// Expressions

// parseExpr parses by precedence climbing. Binary operators are left
// associative except "=", which is right associative. A compound
// assignment "l op= r" becomes "l = l op r" and ends the expression.
func (p *parser) parseExpr(minPrec int) (Expr, error) {
	if err := p.enter(p.lex.Peek().Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	for {
		t := p.lex.Next()

		if t.Kind == KindOperatorAssign {
			rhs, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}

			return &BinaryExpr{
				Op:  OpAssign,
				L:   lhs,
				R:   &BinaryExpr{Op: t.Op, L: lhs, R: rhs, Pos: t.Pos},
				Pos: t.Pos,
			}, nil
		}

		if t.Kind != KindOperator || !t.Op.Binary() || t.Op.Precedence() < minPrec {
			p.lex.Putback(t)

			return lhs, nil
		}

		var rhs Expr

		switch t.Op {
		case OpDot:
			f := p.lex.Next()
			if f.Kind != KindIdent {
				return nil, p.unexpected(f, "field name")
			}

			rhs = &IdentExpr{Name: f.Text, Sym: NoSymbol, Pos: f.Pos}

		case OpAssign:
			rhs, err = p.parseExpr(t.Op.Precedence())

		default:
			rhs, err = p.parseExpr(t.Op.Precedence() + 1)
		}

		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{Op: t.Op, L: lhs, R: rhs, Pos: t.Pos}
	}
}

func (p *parser) parseOperand() (Expr, error) {
	t := p.lex.Next()

	if t.IsOp(OpSub) || t.IsOp(OpNot) {
		x, err := p.parseExpr(OpNot.Precedence())
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Op: t.Op, X: x, Pos: t.Pos}, nil
	}

	p.lex.Putback(t)

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.lex.Next()

	switch t.Kind {
	case KindNumber:
		return &NumberExpr{Value: t.Num, Pos: t.Pos}, nil

	case KindHash:
		return &EmptyExpr{Pos: t.Pos}, nil

	case KindLParen:
		x, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}

		return x, p.expect(KindRParen)

	case KindLBrack:
		return p.parseVec2(t.Pos)

	case KindIdent:
		n := p.lex.Next()
		if n.Kind == KindLBrack {
			args, order, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			return &CallExpr{Name: t.Text, Args: args, Order: order, Pos: t.Pos}, nil
		}

		p.lex.Putback(n)

		return &IdentExpr{Name: t.Text, Sym: p.resolve(t.Text), Pos: t.Pos}, nil

	case KindKeyword:
		switch t.Keyword {
		case KeywordTrue, KeywordFalse:
			return &BoolExpr{Value: t.Keyword == KeywordTrue, Pos: t.Pos}, nil
		case KeywordType:
			return p.parseTypeCheck(t.Pos)
		}
	}

	return nil, p.unexpected(t, "expression")
}

func (p *parser) parseVec2(pos Position) (Expr, error) {
	x, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(KindComma); err != nil {
		return nil, err
	}

	y, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	return &Vec2Expr{X: x, Y: y, Pos: pos}, p.expect(KindRBrack)
}

func (p *parser) parseTypeCheck(pos Position) (Expr, error) {
	if err := p.expect(KindLBrack); err != nil {
		return nil, err
	}

	x, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(KindComma); err != nil {
		return nil, err
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	return &TypeExpr{X: x, Type: typ, Pos: pos}, p.expect(KindRBrack)
}

// parseArgs parses call arguments after the opening bracket through the
// closing bracket. Each argument is "name: expr" or a single unnamed expr.
func (p *parser) parseArgs() (map[string]Expr, []string, error) {
	args := make(map[string]Expr)

	var order []string

	if p.lex.Peek().Kind == KindRBrack {
		p.lex.Next()

		return args, order, nil
	}

	for {
		first := p.lex.Next()
		name := "_"

		if first.Kind == KindIdent || first.Is(KeywordEnd) {
			second := p.lex.Next()
			if second.Kind == KindColon {
				name = first.Text
				if first.Kind == KindKeyword {
					name = first.Keyword.String()
				}
			} else {
				p.lex.Putback(second)
				p.lex.Putback(first)
			}
		} else {
			p.lex.Putback(first)
		}

		x, err := p.parseExpr(0)
		if err != nil {
			return nil, nil, err
		}

		if _, dup := args[name]; dup {
			if name == "_" {
				return nil, nil, p.errorf(first.Pos,
					"passing more than one unnamed argument to a function is not allowed")
			}

			return nil, nil, p.errorf(first.Pos, "duplicate function argument: '%s'", name)
		}

		args[name] = x
		order = append(order, name)

		t := p.lex.Next()

		switch t.Kind {
		case KindRBrack:
			return args, order, nil
		case KindComma:
			continue
		default:
			return nil, nil, p.unexpected(t, "',' or ']'")
		}
	}
}

// Scoping

// resolve returns the symbol a reference to name denotes at the current
// position. Inside a function, declared inputs are visible unless a
// parameter or local of the same name shadows them.
func (p *parser) resolve(name string) Symbol {
	if p.fn == nil || (p.state.inputs[name] && !p.locals[name]) {
		return p.state.syms.Intern(GlobalScope, name)
	}

	return p.local(name)
}

// declare returns the symbol for a new binding of name.
func (p *parser) declare(name string) Symbol {
	if p.fn == nil {
		return p.state.syms.Intern(GlobalScope, name)
	}

	p.locals[name] = true

	return p.local(name)
}

func (p *parser) local(name string) Symbol {
	s := p.state.syms.Intern(p.fn.Name, name)
	if !slices.Contains(p.fn.Locals, s) {
		p.fn.Locals = append(p.fn.Locals, s)
	}

	return s
}

// Helpers

func (p *parser) enter(pos Position) error {
	p.depth++

	if limit := p.cfg.opts.MaxDepth; limit > 0 && p.depth > limit {
		return ErrParse.WithPosition(pos).
			Wrap(ErrMaxDepthExceeded.With(slog.Int("max_depth", limit)))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) errorf(pos Position, format string, args ...any) error {
	return ErrParse.WithPosition(pos).Wrapf(format, args...)
}

func (p *parser) unexpected(t Token, want string) error {
	if t.Kind == KindIllegal {
		return ErrParse.WithPosition(t.Pos).Wrap(ErrLex.Wrap(errors.New(t.Text)))
	}

	return p.errorf(t.Pos, "expected %s, found %s", want, t)
}

func (p *parser) expect(k Kind) error {
	if t := p.lex.Next(); t.Kind != k {
		return p.unexpected(t, k.String())
	}

	return nil
}

func (p *parser) expectOp(o Operator) error {
	if t := p.lex.Next(); !t.IsOp(o) {
		return p.unexpected(t, "'"+o.String()+"'")
	}

	return nil
}

func (p *parser) expectKeyword(k Keyword) error {
	if t := p.lex.Next(); !t.Is(k) {
		return p.unexpected(t, "'"+k.String()+"'")
	}

	return nil
}

func (p *parser) ident(what string) (Token, error) {
	t := p.lex.Next()
	if t.Kind != KindIdent {
		return t, p.unexpected(t, what)
	}

	return t, nil
}
