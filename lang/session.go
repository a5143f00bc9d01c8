package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/shapescript/geom"
)

// Session evaluates source incrementally against a persistent
// environment. Variables, inputs, and functions declared by one call to
// [Session.Eval] remain visible to later calls.
type Session struct {
	state *parseState
	ex    *executor
	cfg   config
}

// NewSession returns an empty session. Inputs are consulted by later
// "input" declarations.
func NewSession(inputs map[string]Value, opts ...Option) *Session {
	cfg := makeConfig(opts...)
	st := newParseState()
	prog := &Program{Functions: st.funcs, Symbols: st.syms, cfg: cfg}

	return &Session{
		state: st,
		ex:    newExecutor(context.Background(), prog, cfg, inputs),
		cfg:   cfg,
	}
}

// Eval parses and runs src. It returns the value of the last expression
// statement, or nil if there was none, and the export result when src
// exported a shape. A failed parse leaves the session unchanged.
func (s *Session) Eval(ctx context.Context, src string) (Value, *Result, error) {
	st := s.state.snapshot()

	prog, err := newParser(src, s.cfg, st).parseProgram()
	if err != nil {
		return nil, nil, err
	}

	s.state = st
	s.ex.ctx = ctx
	s.ex.prog = prog
	s.ex.grow()

	s.cfg.logger.TraceContext(ctx, "session eval", slog.Int("statements", len(prog.Stmts)))

	var last Value

	for _, stmt := range prog.Stmts {
		if es, ok := stmt.(*ExprStmt); ok {
			v, err := s.ex.value(es.X)
			if s.ex.isHalt(err) {
				break
			}

			if err != nil {
				return nil, nil, ErrExec.Wrap(err)
			}

			last = v
		} else {
			sig, err := s.ex.exec(stmt)
			if err != nil {
				return nil, nil, ErrExec.Wrap(err)
			}

			if sig == SignalHalt {
				break
			}
		}

		if s.ex.halted {
			break
		}
	}

	if !s.ex.halted {
		return last, nil, nil
	}

	res, err := s.ex.result()

	s.ex.halted = false
	s.ex.shape = nil
	s.ex.adaptive = nil
	s.ex.slots = [geom.SlotCount]bool{}

	return last, res, err
}

// Vars returns the bound global variables.
func (s *Session) Vars() map[string]Value {
	vars := make(map[string]Value)

	for i, v := range s.ex.env {
		if sym := Symbol(i); v != nil && s.state.syms.Global(sym) {
			vars[s.state.syms.Name(sym)] = v
		}
	}

	return vars
}

// Functions returns the names of the user functions declared so far.
func (s *Session) Functions() []string {
	return slices.Sorted(maps.Keys(s.state.funcs))
}

// Function returns the user function declared as name.
func (s *Session) Function(name string) (*Function, bool) {
	fn, ok := s.state.funcs[name]

	return fn, ok
}
