package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shapescript/cli/cmd"
	"github.com/ardnew/shapescript/pkg"
)

// Configuration file names within [pkg.ConfigDir]. Both are read when
// present; the YAML file is the one "init" writes.
const (
	baseConfig     = "config.yaml"
	baseConfigJSON = "config.json"
)

// CLI is the top-level command-line interface for shapescript.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path    []string         `help:"Directories searched for scripts, before those in SHAPESCRIPT_PATH." placeholder:"DIR" short:"P" type:"path"`
	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run      cmd.Run      `cmd:"" default:"withargs" help:"Run a script and print its export (default)."`
	Check    cmd.Check    `cmd:""                    help:"Report errors in scripts."`
	Fmt      cmd.Fmt      `cmd:""                    help:"Format a script."`
	Minify   cmd.Minify   `cmd:""                    help:"Minify a script."`
	Render   cmd.Render   `cmd:""                    help:"Rasterize a script's export to PNG."`
	Builtins cmd.Builtins `cmd:""                    help:"List built-in functions."`
	Repl     cmd.Repl     `cmd:""                    help:"Start an interactive session."`
	Init     cmd.Init     `cmd:""                    help:"Write current global flags to the configuration file."`
}

// Run executes the shapescript CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon
// completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, nil, exit, args...)
}

// run is [Run] with extra kong options, which tests use to capture output.
func run(
	ctx context.Context,
	extra []kong.Option,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cmd.LimitVars()).
		CloneWith(cmd.RenderVars()).
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before parsing wherever they appear, so
	// that messages logged while resolving configuration honor them.
	cli.Log.scan(args)

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, pkg.ConfigPath(baseConfigJSON)),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	}

	parser, err := kong.New(&cli, append(opts, extra...)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSearch(ctx, cmd.MakeSearch(cli.Path...))

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
