package cmd

import (
	"context"
	"io"
	"os"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shapescript/lang"
	"github.com/ardnew/shapescript/log"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type searchKey struct{}

// WithSearch returns a new context.Context carrying the script search path.
func WithSearch(ctx context.Context, s Search) context.Context {
	return context.WithValue(ctx, searchKey{}, s)
}

func searchFrom(ctx context.Context) Search {
	s, _ := ctx.Value(searchKey{}).(Search)

	return s
}

// stdout is the command's output writer: kong's, when running under a
// parser, else os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// stdinSource is the script name that reads stdin.
const stdinSource = "-"

// script is one opened source.
type script struct {
	io.Reader

	name  string
	close func() error
}

func (s script) Close() error {
	if s.close == nil {
		return nil
	}

	return s.close()
}

// fileKey identifies a file by device and inode so that the same script
// reached through different paths or links is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// openScripts resolves and opens each name, skipping duplicates. An empty
// names reads stdin. The caller closes every returned script.
func openScripts(names []string, search Search) ([]script, error) {
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	var (
		out   []script
		stdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, name := range names {
		if name == stdinSource {
			if !stdin {
				stdin = true
				out = append(out, script{Reader: os.Stdin, name: "<stdin>"})
			}

			continue
		}

		path, err := search.Resolve(name)
		if err != nil {
			closeScripts(out)

			return nil, err
		}

		f, err := os.Open(path)
		if err != nil {
			closeScripts(out)

			return nil, ErrScriptNotFound.Wrap(err)
		}

		if info, err := f.Stat(); err == nil {
			if key, ok := makeFileKey(info); ok {
				if _, dup := seen[key]; dup {
					f.Close()

					continue
				}

				seen[key] = struct{}{}
			}
		}

		out = append(out, script{Reader: f, name: path, close: f.Close})
	}

	return out, nil
}

func closeScripts(ss []script) {
	for _, s := range ss {
		_ = s.Close()
	}
}

// openScript opens a single script by name.
func openScript(name string, search Search) (script, error) {
	ss, err := openScripts([]string{name}, search)
	if err != nil {
		return script{}, err
	}

	return ss[0], nil
}

// Limits bounds parsing and execution.
type Limits struct {
	MaxDepth      int `default:"${maxDepth}"      help:"Maximum statement and expression nesting depth."`
	MaxCallDepth  int `default:"${maxCallDepth}"  help:"Maximum function call depth."`
	MaxIterations int `default:"${maxIterations}" help:"Maximum loop iterations per run (0 disables)."`
}

// LimitVars supplies the defaults interpolated into [Limits] tags.
func LimitVars() kong.Vars {
	return kong.Vars{
		"maxDepth":      strconv.Itoa(lang.DefaultMaxDepth),
		"maxCallDepth":  strconv.Itoa(lang.DefaultMaxCallDepth),
		"maxIterations": strconv.Itoa(lang.DefaultMaxIterations),
	}
}

func (l Limits) options(extra ...lang.Option) []lang.Option {
	depth, calls := l.MaxDepth, l.MaxCallDepth
	if depth <= 0 {
		depth = lang.DefaultMaxDepth
	}

	if calls <= 0 {
		calls = lang.DefaultMaxCallDepth
	}

	return append([]lang.Option{
		lang.WithMaxDepth(depth),
		lang.WithMaxCallDepth(calls),
		lang.WithMaxIterations(l.MaxIterations),
		lang.WithLogger(log.Default()),
	}, extra...)
}
