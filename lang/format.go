package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes p in native syntax. With indent 0 the program is written
// on a single line.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	pr := &printer{indent: indent}

	return pr.program(w, p)
}

// FormatJSON writes the syntax tree of p as JSON.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the syntax tree of p as YAML.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// printer renders native syntax. Identifier and function names pass
// through the optional rename hooks.
type printer struct {
	sb       strings.Builder
	vars     func(string) string
	funcs    func(string) string
	builtins map[string]bool
	indent   int
	depth    int
}

func (pr *printer) program(w io.Writer, p *Program) error {
	for i, s := range p.Stmts {
		if i > 0 {
			pr.newline()
		}

		pr.stmt(s)
	}

	pr.sb.WriteByte('\n')

	_, err := io.WriteString(w, pr.sb.String())

	return err
}

func (pr *printer) write(ss ...string) {
	for _, s := range ss {
		pr.sb.WriteString(s)
	}
}

func (pr *printer) newline() {
	if pr.indent == 0 {
		pr.sb.WriteByte(' ')

		return
	}

	pr.sb.WriteByte('\n')
	pr.sb.WriteString(strings.Repeat(" ", pr.indent*pr.depth))
}

func (pr *printer) varName(name string) string {
	if pr.vars == nil {
		return name
	}

	return pr.vars(name)
}

func (pr *printer) funcName(name string) string {
	if pr.funcs == nil || pr.builtins[name] {
		return name
	}

	return pr.funcs(name)
}

func (pr *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *BlockStmt:
		pr.block(s)

	case *LetStmt:
		pr.write("let ", pr.varName(s.Name), " = ")

		if sh, ok := s.Value.(*ShapeExpr); ok {
			pr.write("begin[")
			pr.expr(sh.Mode, 0)
			pr.write("] ")
			pr.block(sh.Body)

			return
		}

		pr.expr(s.Value, 0)
		pr.write(";")

	case *AssignStmt:
		pr.write(pr.varName(s.Name), " = ")
		pr.expr(s.Value, 0)
		pr.write(";")

	case *ForStmt:
		pr.write("for ", pr.varName(s.Var), " in begin[end: ")
		pr.expr(s.End, 0)

		if n, ok := s.Start.(*NumberExpr); !ok || n.Value != 0 {
			pr.write(", start: ")
			pr.expr(s.Start, 0)
		}

		if n, ok := s.Step.(*NumberExpr); !ok || n.Value != 1 {
			pr.write(", step: ")
			pr.expr(s.Step, 0)
		}

		pr.write("] ")
		pr.stmt(s.Body)

	case *WhileStmt:
		pr.write("while ")
		pr.expr(s.Cond, 0)
		pr.write(" ")
		pr.stmt(s.Body)

	case *IfStmt:
		pr.write("if ")
		pr.expr(s.Cond, 0)
		pr.write(" ")
		pr.stmt(s.Then)

		if _, nop := s.Else.(*NopStmt); s.Else != nil && !nop {
			pr.newline()
			pr.write("else ")
			pr.stmt(s.Else)
		}

	case *InputStmt:
		pr.write("input ", s.Name, ": ", s.Type.Keyword())

		if s.Default != nil {
			pr.write(" = ")
			pr.expr(s.Default, 0)
		}

		pr.write(";")

	case *ExportStmt:
		pr.write("export ")
		pr.expr(s.Value, 0)
		pr.write(";")

	case *ExportAdaptiveStmt:
		pr.write("export adaptive: ")

		for i, x := range s.Parts {
			if i > 0 {
				pr.write(", ")
			}

			pr.expr(x, 0)
		}

		pr.write(";")

	case *ExportSlotStmt:
		pr.write("export ")
		pr.expr(s.Value, 0)
		pr.write(" as ", s.Slot.String(), ";")

	case *ExportFinishStmt:
		pr.write("export finish;")

	case *BreakStmt:
		pr.write("break;")

	case *ContinueStmt:
		pr.write("continue;")

	case *ReturnStmt:
		pr.write("return")

		if s.Value != nil {
			pr.write(" ")
			pr.expr(s.Value, 0)
		}

		pr.write(";")

	case *FunctionStmt:
		f := s.Func
		pr.write("function ", pr.funcName(f.Name), "[")

		for i, p := range f.Params {
			if i > 0 {
				pr.write(", ")
			}

			pr.write(pr.varName(p.Name), ": ", p.Type.Keyword())
		}

		pr.write("] ")
		pr.stmt(f.Body)

	case *ExprStmt:
		pr.expr(s.X, 0)
		pr.write(";")

	case *NopStmt:
		pr.write(":end;")
	}
}

func (pr *printer) block(b *BlockStmt) {
	pr.write(":")
	pr.depth++

	for _, s := range b.Stmts {
		pr.newline()
		pr.stmt(s)
	}

	pr.depth--
	pr.newline()
	pr.write("end;")
}

// expr writes x, parenthesized when its precedence is below prec.
func (pr *printer) expr(x Expr, prec int) {
	switch x := x.(type) {
	case *BinaryExpr:
		op := x.Op.Precedence()
		if op < prec {
			pr.write("(")
			defer pr.write(")")
		}

		switch x.Op {
		case OpDot:
			pr.expr(x.L, op)
			pr.write(".", x.R.(*IdentExpr).Name)

		case OpAssign:
			pr.expr(x.L, op+1)
			pr.write(" = ")
			pr.expr(x.R, op)

		default:
			pr.expr(x.L, op)
			pr.write(" ", x.Op.String(), " ")
			pr.expr(x.R, op+1)
		}

	case *UnaryExpr:
		op := OpNot.Precedence()
		if op < prec {
			pr.write("(")
			defer pr.write(")")
		}

		pr.write(x.Op.String())
		pr.expr(x.X, op)

	case *IdentExpr:
		pr.write(pr.varName(x.Name))

	case *NumberExpr:
		pr.write(formatNumber(x.Value))

	case *BoolExpr:
		pr.write(strconv.FormatBool(x.Value))

	case *EmptyExpr:
		pr.write("#")

	case *Vec2Expr:
		pr.write("[")
		pr.expr(x.X, 0)
		pr.write(", ")
		pr.expr(x.Y, 0)
		pr.write("]")

	case *TypeExpr:
		pr.write("type[")
		pr.expr(x.X, 0)
		pr.write(", ", x.Type.Keyword(), "]")

	case *CallExpr:
		builtin := pr.builtins[x.Name]
		if pr.builtins == nil {
			_, builtin = LookupBuiltin(x.Name)
		}

		pr.write(pr.funcName(x.Name), "[")

		for i, k := range x.Order {
			if i > 0 {
				pr.write(", ")
			}

			switch {
			case k == "_":
			case builtin:
				pr.write(k, ": ")
			default:
				pr.write(pr.varName(k), ": ")
			}

			pr.expr(x.Args[k], 0)
		}

		pr.write("]")

	case *ShapeExpr:
		pr.write("begin[")
		pr.expr(x.Mode, 0)
		pr.write("] ")
		pr.block(x.Body)
	}
}

func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f < 0 {
		return "(" + s + ")"
	}

	return s
}
