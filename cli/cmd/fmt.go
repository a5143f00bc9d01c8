package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/ardnew/shapescript/lang"
)

// Fmt parses a script and writes it back in the chosen form.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical shape script (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	Tokens Tokens `cmd:""                    help:"List the lexical tokens."`
}

// ScriptArg is the positional script argument shared by the commands that
// read a single script.
type ScriptArg struct {
	Script string `arg:"" default:"-" help:"Script path, name on the search path, or '-' for stdin." name:"script"`
}

// parse opens and parses the script, tagging failures with the format.
func (s ScriptArg) parse(ctx context.Context, format string) (*lang.Program, error) {
	sc, err := openScript(s.Script, searchFrom(ctx))
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	prog, err := lang.ParseReader(ctx, sc, Limits{}.options()...)
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("format", format),
			slog.String("script", sc.name),
		)
	}

	return prog, nil
}

// Native formats input as canonical shape script.
type Native struct {
	ScriptArg `embed:""`

	Indent int `default:"2" help:"Indent width; 0 writes one line." short:"n"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	return prog.Format(ctx, stdout(ctx), f.Indent)
}

// JSON writes the syntax tree as JSON.
type JSON struct {
	ScriptArg `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output." short:"n"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	if err := prog.FormatJSON(ctx, stdout(ctx), j.Indent); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}

// YAML writes the syntax tree as YAML.
type YAML struct {
	ScriptArg `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output; 0 writes flow style." short:"n"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	if err := prog.FormatYAML(ctx, stdout(ctx), y.Indent); err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	return nil
}

// Tokens lists the tokens of a script, one per line, stopping at the
// first illegal token.
type Tokens struct {
	ScriptArg `embed:""`
}

// Run executes the fmt tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sc, err := openScript(t.Script, searchFrom(ctx))
	if err != nil {
		return err
	}
	defer sc.Close()

	src, err := io.ReadAll(sc)
	if err != nil {
		return lang.ErrReadInput.Wrap(err)
	}

	tw := tabwriter.NewWriter(stdout(ctx), 0, 4, 2, ' ', 0)

	for tok := range lang.NewLexer(string(src)).All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\n", tok.Pos, tok.Kind, tok)

		if tok.Kind == lang.KindIllegal {
			tw.Flush()

			return lang.ErrLex.WithPosition(tok.Pos).Wrap(fmt.Errorf("%s", tok.Text))
		}
	}

	return tw.Flush()
}
