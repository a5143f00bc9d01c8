package lang

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/shapescript/geom"
)

// Signal is the control-flow outcome of executing a statement.
type Signal int

// Statement outcomes. Loops consume Break and Continue; function calls
// consume Return; Halt propagates to the top level.
const (
	SignalNormal Signal = iota
	SignalBreak
	SignalContinue
	SignalReturn
	SignalHalt
)

var signalName = [...]string{"normal", "break", "continue", "return", "halt"}

func (s Signal) String() string {
	if s < 0 || int(s) >= len(signalName) {
		return "unknown"
	}

	return signalName[s]
}

// Result is the outcome of a completed run. Exactly one of Shape and
// Adaptive is set.
type Result struct {
	Shape    *geom.Shape    `json:"shape,omitempty"    yaml:"shape,omitempty"`
	Adaptive *geom.Adaptive `json:"adaptive,omitempty" yaml:"adaptive,omitempty"`
	// Vars holds the global variables bound when the program halted.
	Vars map[string]Value `json:"-" yaml:"-"`
}

// IsAdaptive reports whether the run exported a 9-slice shape.
func (r *Result) IsAdaptive() bool { return r.Adaptive != nil }

// Digest returns the content hash of the exported geometry.
func (r *Result) Digest() string {
	if r.Adaptive != nil {
		return r.Adaptive.Digest()
	}

	return r.Shape.Digest()
}

// Run executes p with the given host inputs and returns its export.
// Inputs are keyed by the names declared with "input".
func (p *Program) Run(ctx context.Context, inputs map[string]Value, opts ...Option) (*Result, error) {
	ex := newExecutor(ctx, p, p.cfg.apply(opts...), inputs)

	ex.cfg.logger.TraceContext(ctx, "run start",
		slog.Int("statements", len(p.Stmts)),
		slog.Int("inputs", len(inputs)))

	for _, s := range p.Stmts {
		sig, err := ex.exec(s)
		if err != nil {
			ex.cfg.logger.DebugContext(ctx, "run failed", slog.Any("error", err))

			return nil, ErrExec.Wrap(err)
		}

		if sig == SignalHalt {
			break
		}
	}

	res, err := ex.result()
	if err != nil {
		return nil, ErrExec.Wrap(err)
	}

	ex.cfg.logger.TraceContext(ctx, "run complete",
		slog.Bool("adaptive", res.IsAdaptive()),
		slog.Int("iterations", ex.iterations))

	return res, nil
}

type executor struct {
	ctx        context.Context
	prog       *Program
	inputs     map[string]Value
	verts      *[]geom.Vertex
	shape      *geom.Shape
	adaptive   *geom.Adaptive
	ret        Value
	cfg        config
	env        []Value
	iterations int
	calls      int
	loops      int
	slots      [geom.SlotCount]bool
	halted     bool
}

func newExecutor(ctx context.Context, p *Program, cfg config, inputs map[string]Value) *executor {
	return &executor{
		ctx:    ctx,
		prog:   p,
		cfg:    cfg,
		inputs: inputs,
		env:    make([]Value, p.Symbols.Len()),
	}
}

func (ex *executor) result() (*Result, error) {
	if !ex.halted {
		return nil, ErrMissingExport.Wrapf("program ended without an export")
	}

	vars := make(map[string]Value)
	syms := ex.prog.Symbols

	for i, v := range ex.env {
		if v == nil {
			continue
		}

		s := Symbol(i)
		if syms.Global(s) {
			vars[syms.Name(s)] = v
		} else {
			vars[syms.Mangled(s)] = v
		}
	}

	return &Result{Shape: ex.shape, Adaptive: ex.adaptive, Vars: vars}, nil
}

// grow extends the environment after new symbols were interned.
func (ex *executor) grow() {
	if n := ex.prog.Symbols.Len(); n > len(ex.env) {
		ex.env = append(ex.env, make([]Value, n-len(ex.env))...)
	}
}

func (ex *executor) name(s Symbol) string { return ex.prog.Symbols.Name(s) }

func (ex *executor) at(n Node, err error) error {
	return WrapError(err).WithPosition(n.Position())
}

// Statements

// errHalted unwinds expression evaluation once a user function exported
// the result. The statement that was running reports [SignalHalt].
var errHalted = NewError("halted")

// isHalt reports whether err only signals a completed export.
func (ex *executor) isHalt(err error) bool {
	return ex.halted && errors.Is(err, errHalted)
}

func (ex *executor) exec(s Stmt) (Signal, error) {
	if ex.halted {
		return SignalHalt, nil
	}

	sig, err := ex.execStmt(s)
	if ex.isHalt(err) {
		return SignalHalt, nil
	}

	return sig, err
}

func (ex *executor) execStmt(s Stmt) (Signal, error) {
	switch s := s.(type) {
	case *BlockStmt:
		return ex.execBlock(s)

	case *LetStmt:
		if ex.env[s.Sym] != nil {
			return 0, ex.at(s, ErrRedefinition.Wrapf("'%s' is already defined", s.Name))
		}

		v, err := ex.value(s.Value)
		if err != nil {
			return 0, err
		}

		ex.env[s.Sym] = v

	case *AssignStmt:
		if ex.env[s.Sym] == nil {
			return 0, ex.at(s, ErrUnknownVariable.Wrapf("'%s'", s.Name))
		}

		v, err := ex.value(s.Value)
		if err != nil {
			return 0, err
		}

		ex.env[s.Sym] = v

	case *ForStmt:
		return ex.execFor(s)

	case *WhileStmt:
		return ex.execWhile(s)

	case *IfStmt:
		cond, err := ex.cond(s.Cond)
		if err != nil {
			return 0, err
		}

		if cond {
			return ex.exec(s.Then)
		}

		return ex.exec(s.Else)

	case *InputStmt:
		return SignalNormal, ex.execInput(s)

	case *ExportStmt:
		if ex.adaptive != nil {
			return 0, ex.at(s, ErrExportSlot.Wrapf("cannot export a shape after exporting slots"))
		}

		v, err := ex.value(s.Value)
		if err != nil {
			return 0, err
		}

		sv, ok := v.(ShapeValue)
		if !ok {
			return 0, ex.at(s, ErrNotShape.Wrapf("found %s", v.Type()))
		}

		ex.shape = sv.Shape

		return ex.halt(), nil

	case *ExportAdaptiveStmt:
		if ex.adaptive != nil {
			return 0, ex.at(s, ErrExportSlot.Wrapf("cannot export adaptive parts after exporting slots"))
		}

		var parts [geom.SlotCount]*geom.Shape

		for i, x := range s.Parts {
			sh, err := ex.slotShape(x)
			if err != nil {
				return 0, err
			}

			parts[i] = sh
		}

		ex.adaptive = geom.NewAdaptive(parts)

		return ex.halt(), nil

	case *ExportSlotStmt:
		if ex.slots[s.Slot] {
			return 0, ex.at(s, ErrExportSlot.Wrapf("slot '%s' was already exported", s.Slot.Long()))
		}

		sh, err := ex.slotShape(s.Value)
		if err != nil {
			return 0, err
		}

		if ex.adaptive == nil {
			ex.adaptive = new(geom.Adaptive)
		}

		ex.adaptive.Set(s.Slot, sh)
		ex.slots[s.Slot] = true

		for _, done := range ex.slots {
			if !done {
				return SignalNormal, nil
			}
		}

		return ex.halt(), nil

	case *ExportFinishStmt:
		if ex.adaptive == nil {
			return 0, ex.at(s, ErrExportSlot.Wrapf("no slots were exported before finish"))
		}

		return ex.halt(), nil

	case *BreakStmt:
		if ex.loops == 0 {
			return 0, ex.at(s, ErrLoopControl.Wrapf("cannot use 'break' outside a loop"))
		}

		return SignalBreak, nil

	case *ContinueStmt:
		if ex.loops == 0 {
			return 0, ex.at(s, ErrLoopControl.Wrapf("cannot use 'continue' outside a loop"))
		}

		return SignalContinue, nil

	case *ReturnStmt:
		ex.ret = Null{}

		if s.Value != nil {
			v, err := ex.value(s.Value)
			if err != nil {
				return 0, err
			}

			ex.ret = v
		}

		return SignalReturn, nil

	case *ExprStmt:
		if _, err := ex.value(s.X); err != nil {
			return 0, err
		}

		if ex.halted {
			return SignalHalt, nil
		}

	case *FunctionStmt, *NopStmt:
	}

	return SignalNormal, nil
}

func (ex *executor) halt() Signal {
	ex.halted = true

	return SignalHalt
}

func (ex *executor) execBlock(b *BlockStmt) (Signal, error) {
	return ex.scope(b.Lets, func() (Signal, error) { return ex.stmts(b.Stmts) })
}

// scope runs fn and then unbinds each of lets that fn bound. Variables
// already bound on entry belong to an enclosing scope and are left alone.
func (ex *executor) scope(lets []Symbol, fn func() (Signal, error)) (Signal, error) {
	var fresh []Symbol

	for _, s := range lets {
		if ex.env[s] == nil {
			fresh = append(fresh, s)
		}
	}

	defer func() {
		for _, s := range fresh {
			ex.env[s] = nil
		}
	}()

	return fn()
}

func (ex *executor) stmts(list []Stmt) (Signal, error) {
	for _, s := range list {
		sig, err := ex.exec(s)
		if err != nil || sig != SignalNormal {
			return sig, err
		}

		if ex.halted {
			return SignalHalt, nil
		}
	}

	return SignalNormal, nil
}

// loop runs body once per call to next until next reports false, handling
// loop signals, cancellation, and the iteration limit.
func (ex *executor) loop(n Node, next func() (bool, error), body Stmt, lets []Symbol) (Signal, error) {
	ex.loops++
	defer func() { ex.loops-- }()

	for {
		ok, err := next()
		if err != nil || !ok {
			return SignalNormal, err
		}

		if err := ex.tick(n); err != nil {
			return 0, err
		}

		sig, err := ex.scope(lets, func() (Signal, error) { return ex.exec(body) })
		if err != nil {
			return 0, err
		}

		switch sig {
		case SignalBreak:
			return SignalNormal, nil
		case SignalReturn, SignalHalt:
			return sig, nil
		}
	}
}

func (ex *executor) tick(n Node) error {
	if err := ex.ctx.Err(); err != nil {
		return ex.at(n, context.Cause(ex.ctx))
	}

	ex.iterations++

	if limit := ex.cfg.maxIterations; limit > 0 && ex.iterations > limit {
		return ex.at(n, ErrIterationLimit.With(slog.Int("max_iterations", limit)))
	}

	return nil
}

// execFor evaluates its bounds once. The loop runs while the counter is
// below end, or above end when step is negative.
func (ex *executor) execFor(s *ForStmt) (Signal, error) {
	var bounds [3]float64

	for i, x := range []Expr{s.Start, s.End, s.Step} {
		v, err := ex.value(x)
		if err != nil {
			return 0, err
		}

		n, ok := v.(Number)
		if !ok {
			return 0, ex.at(x, ErrTypeMismatch.Wrapf("loop bounds must be numbers, found %s", v.Type()))
		}

		bounds[i] = float64(n)
	}

	i, end, step := bounds[0], bounds[1], bounds[2]
	if step == 0 {
		return 0, ex.at(s, ErrLoopStep.Wrapf("step must not be zero"))
	}

	prev := ex.env[s.Sym]
	defer func() { ex.env[s.Sym] = prev }()

	first := true

	return ex.loop(s, func() (bool, error) {
		if !first {
			i += step
		}

		first = false

		if (step < 0 && i <= end) || (step > 0 && i >= end) {
			return false, nil
		}

		ex.env[s.Sym] = Number(i)

		return true, nil
	}, s.Body, s.Lets)
}

func (ex *executor) execWhile(s *WhileStmt) (Signal, error) {
	return ex.loop(s, func() (bool, error) { return ex.cond(s.Cond) }, s.Body, s.Lets)
}

func (ex *executor) cond(x Expr) (bool, error) {
	v, err := ex.value(x)
	if err != nil {
		return false, err
	}

	b, ok := v.(Bool)
	if !ok {
		return false, ex.at(x, ErrTypeMismatch.Wrapf("condition must be bool, found %s", v.Type()))
	}

	return bool(b), nil
}

func (ex *executor) execInput(s *InputStmt) error {
	if v, ok := ex.inputs[s.Name]; ok && !isNull(v) {
		if v.Type() != s.Type {
			return ex.at(s, ErrInputType.Wrapf("'%s' must be %s, found %s", s.Name, s.Type, v.Type()))
		}

		ex.env[s.Sym] = v

		return nil
	}

	if s.Default == nil {
		return ex.at(s, ErrMissingInput.Wrapf("'%s'", s.Name))
	}

	v, err := ex.value(s.Default)
	if err != nil {
		return err
	}

	if v.Type() != s.Type {
		return ex.at(s, ErrInputType.Wrapf("default for '%s' must be %s, found %s", s.Name, s.Type, v.Type()))
	}

	ex.env[s.Sym] = v

	return nil
}

// slotShape evaluates an adaptive part. Null leaves the slot empty.
func (ex *executor) slotShape(x Expr) (*geom.Shape, error) {
	if _, ok := x.(*EmptyExpr); ok {
		return nil, nil
	}

	v, err := ex.value(x)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case Null:
		return nil, nil
	case ShapeValue:
		return v.Shape, nil
	default:
		return nil, ex.at(x, ErrNotShape.Wrapf("found %s", v.Type()))
	}
}

// Expressions

// value evaluates x and resolves any reference it yields.
func (ex *executor) value(x Expr) (Value, error) {
	v, err := ex.eval(x)
	if err != nil {
		return nil, err
	}

	return ex.resolve(x, v)
}

func (ex *executor) resolve(n Node, v Value) (Value, error) {
	r, ok := v.(Ref)
	if !ok {
		return v, nil
	}

	cur := ex.env[r.Sym]
	if cur == nil {
		return nil, ex.at(n, ErrUnknownVariable.Wrapf("'%s'", ex.name(r.Sym)))
	}

	for _, f := range r.Path {
		next, err := field(cur, f)
		if err != nil {
			return nil, ex.at(n, err)
		}

		cur = next
	}

	return cur, nil
}

func (ex *executor) eval(x Expr) (Value, error) {
	switch x := x.(type) {
	case *IdentExpr:
		return Ref{Sym: x.Sym}, nil

	case *NumberExpr:
		return Number(x.Value), nil

	case *BoolExpr:
		return Bool(x.Value), nil

	case *EmptyExpr:
		return Null{}, nil

	case *Vec2Expr:
		var c [2]float64

		for i, e := range []Expr{x.X, x.Y} {
			v, err := ex.value(e)
			if err != nil {
				return nil, err
			}

			n, ok := v.(Number)
			if !ok {
				return nil, ex.at(e, ErrTypeMismatch.Wrapf("vec2 components must be numbers, found %s", v.Type()))
			}

			c[i] = float64(n)
		}

		return Vec2{X: c[0], Y: c[1]}, nil

	case *TypeExpr:
		v, err := ex.value(x.X)
		if err != nil {
			return nil, err
		}

		return Bool(v.Type() == x.Type), nil

	case *UnaryExpr:
		v, err := ex.value(x.X)
		if err != nil {
			return nil, err
		}

		v, err = Unary(x.Op, v)
		if err != nil {
			return nil, ex.at(x, err)
		}

		return v, nil

	case *BinaryExpr:
		return ex.evalBinary(x)

	case *ShapeExpr:
		return ex.evalShape(x)

	case *CallExpr:
		return ex.call(x)
	}

	return nil, ErrExec.Wrapf("unsupported expression %T", x)
}

func (ex *executor) evalBinary(x *BinaryExpr) (Value, error) {
	switch x.Op {
	case OpDot:
		l, err := ex.eval(x.L)
		if err != nil {
			return nil, err
		}

		name := x.R.(*IdentExpr).Name

		if r, ok := l.(Ref); ok {
			return Ref{Sym: r.Sym, Path: append(r.Path[:len(r.Path):len(r.Path)], name)}, nil
		}

		v, err := field(l, name)
		if err != nil {
			return nil, ex.at(x, err)
		}

		return v, nil

	case OpAssign:
		l, err := ex.eval(x.L)
		if err != nil {
			return nil, err
		}

		r, ok := l.(Ref)
		if !ok {
			return nil, ex.at(x, ErrTypeMismatch.Wrapf("cannot assign to %s", l.Type()))
		}

		v, err := ex.value(x.R)
		if err != nil {
			return nil, err
		}

		return v, ex.store(x, r, v)
	}

	l, err := ex.value(x.L)
	if err != nil {
		return nil, err
	}

	r, err := ex.value(x.R)
	if err != nil {
		return nil, err
	}

	v, err := Binary(x.Op, l, r)
	if err != nil {
		return nil, ex.at(x, err)
	}

	return v, nil
}

// store writes v through the reference r, copying and modifying the
// bound value when r has a field path.
func (ex *executor) store(n Node, r Ref, v Value) error {
	cur := ex.env[r.Sym]
	if cur == nil {
		return ex.at(n, ErrUnknownVariable.Wrapf("'%s'", ex.name(r.Sym)))
	}

	next, err := setField(cur, r.Path, v)
	if err != nil {
		return ex.at(n, err)
	}

	ex.env[r.Sym] = next

	return nil
}

func (ex *executor) evalShape(x *ShapeExpr) (Value, error) {
	mode, err := ex.value(x.Mode)
	if err != nil {
		return nil, err
	}

	m, ok := mode.(Number)
	if !ok {
		return nil, ex.at(x, ErrTypeMismatch.Wrapf("shape mode must be a number, found %s", mode.Type()))
	}

	var verts []geom.Vertex

	saved, loops := ex.verts, ex.loops
	ex.verts, ex.loops = &verts, 0

	defer func() { ex.verts, ex.loops = saved, loops }()

	sig, err := ex.exec(x.Body)
	if err != nil {
		return nil, err
	}

	if sig == SignalReturn {
		return nil, ex.at(x, ErrLoopControl.Wrapf("cannot return from inside a shape definition"))
	}

	return ShapeValue{Shape: geom.New(verts, geom.ParseMode(float64(m)))}, nil
}

// Calls

func (ex *executor) call(c *CallExpr) (Value, error) {
	ex.cfg.logger.TraceContext(ex.ctx, "call", slog.String("call", describe(c)))

	if b, ok := LookupBuiltin(c.Name); ok {
		return ex.callBuiltin(b, c)
	}

	if fn, ok := ex.prog.Functions[c.Name]; ok {
		return ex.invoke(fn, c)
	}

	err := ErrUnknownFunction.Wrapf("'%s'", c.Name)

	if hint := ex.suggest(c.Name); hint != "" {
		err = ErrUnknownFunction.Wrapf("'%s', did you mean '%s'?", c.Name, hint)
	}

	return nil, ex.at(c, err)
}

func (ex *executor) suggest(name string) string {
	names := BuiltinNames()
	for n := range ex.prog.Functions {
		names = append(names, n)
	}

	if m := fuzzy.Find(name, names); len(m) > 0 {
		return m[0].Str
	}

	return ""
}

func (ex *executor) args(c *CallExpr) (map[string]Value, error) {
	vals := make(map[string]Value, len(c.Args))

	for _, k := range c.Order {
		v, err := ex.value(c.Args[k])
		if err != nil {
			return nil, err
		}

		vals[k] = v
	}

	return vals, nil
}

func (ex *executor) callBuiltin(b *Builtin, c *CallExpr) (Value, error) {
	vals, err := ex.args(c)
	if err != nil {
		return nil, err
	}

	if !b.Variadic {
		for _, k := range c.Order {
			if k != "_" && !b.hasParam(k) {
				return nil, ex.at(c, ErrArgument.Wrapf("%s has no parameter '%s'", b.Name, k))
			}
		}
	}

	a := &Args{
		values: vals,
		order:  c.Order,
		out:    ex.cfg.output,
		verts:  ex.verts,
		fn:     b.Name,
	}

	if len(b.Params) > 0 {
		a.first = b.Params[0].Name
	}

	v, err := b.Call(a)
	if err != nil {
		return nil, ex.at(c, err)
	}

	return v, nil
}

// invoke runs a user function. Its parameters and locals are saved before
// the call and restored afterward so recursive calls do not clobber each
// other.
func (ex *executor) invoke(fn *Function, c *CallExpr) (Value, error) {
	if ex.calls >= ex.cfg.maxCallDepth {
		return nil, ex.at(c, ErrCallDepth.With(slog.Int("max_call_depth", ex.cfg.maxCallDepth)))
	}

	if err := ex.ctx.Err(); err != nil {
		return nil, ex.at(c, context.Cause(ex.ctx))
	}

	vals, err := ex.args(c)
	if err != nil {
		return nil, err
	}

	bound := make([]Value, len(fn.Params))

	for _, k := range c.Order {
		i := -1

		switch {
		case k == "_" && len(fn.Params) == 1:
			i = 0
		case k == "_":
			return nil, ex.at(c, ErrArgument.Wrapf(
				"%s takes %d parameters, an unnamed argument is ambiguous", fn.Name, len(fn.Params)))
		default:
			for j, p := range fn.Params {
				if p.Name == k {
					i = j
				}
			}
		}

		if i < 0 {
			return nil, ex.at(c, ErrArgument.Wrapf("%s has no parameter '%s'", fn.Name, k))
		}

		bound[i] = vals[k]
	}

	for i, p := range fn.Params {
		if bound[i] == nil {
			return nil, ex.at(c, ErrMissingArgument.Wrapf("missing param '%s' from function %s", p.Name, fn.Name))
		}

		if bound[i].Type() != p.Type {
			return nil, ex.at(c, ErrTypeMismatch.Wrapf(
				"%s: param '%s' must be %s, found %s", fn.Name, p.Name, p.Type, bound[i].Type()))
		}
	}

	saved := make([]Value, len(fn.Locals))
	for i, s := range fn.Locals {
		saved[i] = ex.env[s]
		ex.env[s] = nil
	}

	loops := ex.loops
	ex.calls++

	defer func() {
		for i, s := range fn.Locals {
			ex.env[s] = saved[i]
		}

		ex.loops = loops
		ex.calls--
	}()

	for i, p := range fn.Params {
		ex.env[p.Sym] = bound[i]
	}

	ex.loops = 0
	ex.ret = nil

	sig, err := ex.exec(fn.Body)
	if err != nil {
		return nil, err
	}

	if ex.halted {
		return nil, errHalted
	}

	if sig == SignalReturn && ex.ret != nil {
		v := ex.ret
		ex.ret = nil

		return v, nil
	}

	return Null{}, nil
}

// describe renders a call for log output.
func describe(c *CallExpr) string {
	return c.Name + "[" + strings.Join(c.Order, ", ") + "]"
}
