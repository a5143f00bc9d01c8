package lang

import (
	"encoding/json"

	"github.com/ardnew/shapescript/geom"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the syntax tree of p to native Go maps and slices.
// Every node is a map with a "node" key naming its kind.
func (p *Program) ToMap() map[string]any {
	stmts := make([]any, len(p.Stmts))
	for i, s := range p.Stmts {
		stmts[i] = stmtMap(s)
	}

	return map[string]any{"node": "program", "statements": stmts}
}

func node(kind string, pos Position, kv ...any) map[string]any {
	m := map[string]any{"node": kind, "pos": pos.String()}

	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok && kv[i+1] != nil {
			m[k] = kv[i+1]
		}
	}

	return m
}

func stmtList(ss []Stmt) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = stmtMap(s)
	}

	return out
}

func stmtMap(s Stmt) any {
	switch s := s.(type) {
	case *BlockStmt:
		return node("block", s.Pos, "statements", stmtList(s.Stmts))
	case *LetStmt:
		return node("let", s.Pos, "name", s.Name, "value", exprMap(s.Value))
	case *AssignStmt:
		return node("assign", s.Pos, "name", s.Name, "value", exprMap(s.Value))
	case *ForStmt:
		return node("for", s.Pos, "var", s.Var,
			"start", exprMap(s.Start), "end", exprMap(s.End), "step", exprMap(s.Step),
			"body", stmtMap(s.Body))
	case *WhileStmt:
		return node("while", s.Pos, "cond", exprMap(s.Cond), "body", stmtMap(s.Body))
	case *IfStmt:
		return node("if", s.Pos, "cond", exprMap(s.Cond),
			"then", stmtMap(s.Then), "else", stmtMap(s.Else))
	case *InputStmt:
		return node("input", s.Pos, "name", s.Name, "type", s.Type.Keyword(),
			"default", exprMap(s.Default))
	case *ExportStmt:
		return node("export", s.Pos, "value", exprMap(s.Value))
	case *ExportAdaptiveStmt:
		parts := make(map[string]any, len(s.Parts))
		for i, x := range s.Parts {
			parts[geom.Slot(i).Long()] = exprMap(x)
		}

		return node("export_adaptive", s.Pos, "parts", parts)
	case *ExportSlotStmt:
		return node("export_slot", s.Pos, "slot", s.Slot.Long(), "value", exprMap(s.Value))
	case *ExportFinishStmt:
		return node("export_finish", s.Pos)
	case *BreakStmt:
		return node("break", s.Pos)
	case *ContinueStmt:
		return node("continue", s.Pos)
	case *ReturnStmt:
		return node("return", s.Pos, "value", exprMap(s.Value))
	case *FunctionStmt:
		params := make([]any, len(s.Func.Params))
		for i, p := range s.Func.Params {
			params[i] = map[string]any{"name": p.Name, "type": p.Type.Keyword()}
		}

		return node("function", s.Func.Pos, "name", s.Func.Name, "params", params,
			"body", stmtMap(s.Func.Body))
	case *ExprStmt:
		return exprMap(s.X)
	case *NopStmt:
		return node("nop", s.Pos)
	default:
		return nil
	}
}

func exprMap(x Expr) any {
	switch x := x.(type) {
	case nil:
		return nil
	case *ShapeExpr:
		return node("shape", x.Pos, "mode", exprMap(x.Mode), "body", stmtMap(x.Body))
	case *CallExpr:
		args := make([]any, len(x.Order))
		for i, k := range x.Order {
			args[i] = map[string]any{"name": k, "value": exprMap(x.Args[k])}
		}

		return node("call", x.Pos, "name", x.Name, "args", args)
	case *UnaryExpr:
		return node("unary", x.Pos, "op", x.Op.String(), "operand", exprMap(x.X))
	case *BinaryExpr:
		return node("binary", x.Pos, "op", x.Op.String(), "left", exprMap(x.L), "right", exprMap(x.R))
	case *IdentExpr:
		if x.Sym == NoSymbol {
			return node("field", x.Pos, "name", x.Name)
		}

		return node("ident", x.Pos, "name", x.Name)
	case *NumberExpr:
		return node("number", x.Pos, "value", x.Value)
	case *BoolExpr:
		return node("bool", x.Pos, "value", x.Value)
	case *Vec2Expr:
		return node("vec2", x.Pos, "x", exprMap(x.X), "y", exprMap(x.Y))
	case *TypeExpr:
		return node("type", x.Pos, "value", exprMap(x.X), "type", x.Type.Keyword())
	case *EmptyExpr:
		return node("empty", x.Pos)
	default:
		return nil
	}
}
