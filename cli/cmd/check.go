package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/ardnew/shapescript/lang"
	"github.com/ardnew/shapescript/log"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	errColor   = color.New(color.FgRed, color.Bold)
	placeColor = color.New(color.Bold)
	noteColor  = color.New(color.FgHiBlack)
)

// Check parses each script and reports every failure. With --exec each
// script is also run, which catches errors that only occur at run time.
type Check struct {
	Limits `embed:""`

	Exec  bool     `help:"Also run each script." short:"x"`
	Input []string `help:"Bind a declared input when running (name=expr)." placeholder:"NAME=EXPR" short:"i"`

	Scripts []string `arg:"" help:"Scripts to check, or '-' for stdin." name:"script" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	inputs, err := lang.ParseAssignments(c.Input)
	if err != nil {
		return err
	}

	scripts, err := openScripts(c.Scripts, searchFrom(ctx))
	if err != nil {
		return err
	}
	defer closeScripts(scripts)

	w := stdout(ctx)
	failed := 0

	for _, s := range scripts {
		if err := c.check(ctx, s, inputs); err != nil {
			failed++

			writeDiagnostic(stderr(ctx), s.name, err)

			continue
		}

		fmt.Fprintf(w, "%s %s\n", okColor.Sprint("ok"), s.name)
	}

	log.DebugContext(ctx, "check complete",
		slog.Int("scripts", len(scripts)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return ErrCheckFailed.With(slog.Int("failed", failed))
	}

	return nil
}

func (c *Check) check(ctx context.Context, s script, inputs map[string]lang.Value) error {
	prog, err := lang.ParseReader(ctx, s, c.options()...)
	if err != nil {
		return err
	}

	if !c.Exec {
		return nil
	}

	_, err = prog.Run(ctx, inputs, c.options()...)

	return err
}

// writeDiagnostic writes err in the conventional "file:line:col: error:"
// form, locating it at the innermost position found in its chain.
func writeDiagnostic(w io.Writer, name string, err error) {
	place := name
	if pos, ok := errorPosition(err); ok {
		place += ":" + pos.String()
	}

	fmt.Fprintf(w, "%s: %s %v\n", placeColor.Sprint(place), errColor.Sprint("error:"), err)

	var le *lang.Error
	if !errors.As(err, &le) {
		return
	}

	for _, a := range le.LogValue().Group() {
		switch a.Key {
		case "error", "pos", "cause":
			continue
		}

		fmt.Fprintln(w, noteColor.Sprintf("  %s: %s", a.Key, a.Value))
	}
}

// errorPosition returns the position of the innermost *lang.Error in the
// chain of err that carries one.
func errorPosition(err error) (lang.Position, bool) {
	var (
		pos   lang.Position
		found bool
	)

	for err != nil {
		if le, ok := err.(*lang.Error); ok {
			if p, ok := le.Position(); ok {
				pos, found = p, true
			}
		}

		err = errors.Unwrap(err)
	}

	return pos, found
}
