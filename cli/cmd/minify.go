package cmd

import (
	"context"
)

// Minify rewrites a script with short identifiers and no layout.
// Built-in names, argument names, and input names are kept so that the
// result accepts the same inputs.
type Minify struct {
	ScriptArg `embed:""`
}

// Run executes the minify command.
func (m *Minify) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := m.parse(ctx, "minify")
	if err != nil {
		return err
	}

	return prog.Minify(stdout(ctx))
}
