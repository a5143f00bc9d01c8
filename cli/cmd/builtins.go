package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/shapescript/lang"
)

// Builtins lists the built-in functions available to scripts.
type Builtins struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Listing format (${enum})." short:"o"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output."`

	Query string `arg:"" help:"Only list names fuzzy-matching this query, best match first." optional:""`
}

// Run executes the builtins command.
func (b *Builtins) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	list := matchBuiltins(b.Query)
	w := stdout(ctx)

	switch b.Format {
	case formatJSON:
		return writeJSON(w, list, b.Indent)
	case formatYAML:
		return writeYAML(ctx, w, list, b.Indent)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, bi := range list {
		fmt.Fprintf(tw, "%s\t%s\n", bi.Signature(), bi.Doc)
	}

	return tw.Flush()
}

// matchBuiltins returns every built-in sorted by name, or those matching
// query ranked by match quality.
func matchBuiltins(query string) []*lang.Builtin {
	names := lang.BuiltinNames()

	if query != "" {
		found := fuzzy.Find(query, names)
		names = make([]string, len(found))

		for i, m := range found {
			names[i] = m.Str
		}
	}

	list := make([]*lang.Builtin, 0, len(names))

	for _, name := range names {
		if bi, ok := lang.LookupBuiltin(name); ok {
			list = append(list, bi)
		}
	}

	return list
}
