package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/shapescript/cli/cmd/repl"
	"github.com/ardnew/shapescript/lang"
	"github.com/ardnew/shapescript/log"
)

// Repl starts an interactive session. A script given as argument is
// evaluated first, and its variables and functions stay available.
type Repl struct {
	Limits `embed:""`

	Input   []string `help:"Bind a declared input (name=expr)." placeholder:"NAME=EXPR" short:"i"`
	History bool     `default:"true" help:"Persist line history in the cache directory." negatable:""`

	Script string `arg:"" help:"Script to load before the first prompt." name:"script" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	inputs, err := lang.ParseAssignments(r.Input)
	if err != nil {
		return err
	}

	cfg := repl.Config{
		Inputs:  inputs,
		Logger:  log.Default(),
		Options: r.options(),
	}

	if r.History {
		if ktx := kongContextFrom(ctx); ktx != nil {
			cfg.CacheDir = ktx.Model.Vars()[CacheIdentifier]
		}
	}

	if r.Script != "" {
		s, err := openScript(r.Script, searchFrom(ctx))
		if err != nil {
			return err
		}
		defer s.Close()

		cfg.Source = s

		log.DebugContext(ctx, "repl preload", slog.String("script", s.name))
	}

	return repl.Run(ctx, cfg)
}
