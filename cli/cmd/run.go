package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/shapescript/lang"
	"github.com/ardnew/shapescript/log"
)

// Run executes a script and prints the shape it exports. Output from
// "print" is written before the result.
type Run struct {
	Limits `embed:""`

	Input  []string `help:"Bind a declared input, e.g. -i size=3 or -i 'at=[1, 2]'." placeholder:"NAME=EXPR" short:"i"`
	Format string   `default:"text" enum:"text,json,yaml" help:"Result format (${enum})." short:"o"`
	Indent int      `default:"2" help:"Indent width for JSON and YAML output."`
	Vars   bool     `help:"Include the final global variables in the result."`

	Script string `arg:"" default:"-" help:"Script path, name on the search path, or '-' for stdin." name:"script"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := runScript(ctx, r.Script, r.Input, r.Limits)
	if err != nil {
		return err
	}

	return writeResult(ctx, stdout(ctx), res, r.Format, r.Indent, r.Vars)
}

// runScript parses and runs the named script with inputs given as
// name=expr pairs. Print output goes to the command's stdout.
func runScript(
	ctx context.Context,
	name string,
	pairs []string,
	limits Limits,
) (*lang.Result, error) {
	inputs, err := lang.ParseAssignments(pairs)
	if err != nil {
		return nil, err
	}

	s, err := openScript(name, searchFrom(ctx))
	if err != nil {
		return nil, err
	}
	defer s.Close()

	prog, err := lang.ParseReader(ctx, s, limits.options()...)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("script", s.name))
	}

	res, err := prog.Run(ctx, inputs, limits.options(lang.WithOutput(stdout(ctx)))...)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("script", s.name))
	}

	log.DebugContext(ctx, "script exported",
		slog.String("script", s.name),
		slog.Bool("adaptive", res.IsAdaptive()),
		slog.String("digest", res.Digest()),
	)

	return res, nil
}
