package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/shapescript/geom"
	"github.com/ardnew/shapescript/lang"
)

// Result formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// report is the serialized form of a run result.
type report struct {
	Shape  *geom.Shape            `json:"shape,omitempty"  yaml:"shape,omitempty"`
	Slots  map[string]*geom.Shape `json:"slots,omitempty"  yaml:"slots,omitempty"`
	Vars   map[string]any         `json:"vars,omitempty"   yaml:"vars,omitempty"`
	Digest string                 `json:"digest"           yaml:"digest"`
}

func makeReport(res *lang.Result, vars bool) report {
	r := report{Shape: res.Shape, Digest: res.Digest()}

	if res.IsAdaptive() {
		r.Slots = make(map[string]*geom.Shape)

		for slot := range geom.Slots() {
			if part := res.Adaptive.Get(slot); part != nil {
				r.Slots[slot.Long()] = part
			}
		}
	}

	if vars && len(res.Vars) > 0 {
		r.Vars = make(map[string]any, len(res.Vars))

		for name, v := range res.Vars {
			r.Vars[name] = lang.Native(v)
		}
	}

	return r
}

// writeResult writes res to w in the named format.
func writeResult(
	ctx context.Context,
	w io.Writer,
	res *lang.Result,
	format string,
	indent int,
	vars bool,
) error {
	switch format {
	case formatJSON:
		return writeJSON(w, makeReport(res, vars), indent)
	case formatYAML:
		return writeYAML(ctx, w, makeReport(res, vars), indent)
	}

	var b strings.Builder

	if res.IsAdaptive() {
		fmt.Fprintf(&b, "adaptive (%d of %d slots)\n", res.Adaptive.Filled(), geom.SlotCount)

		for slot := range geom.Slots() {
			if part := res.Adaptive.Get(slot); part != nil {
				fmt.Fprintf(&b, "  %-13s %s\n", slot.Long(), part)
			}
		}
	} else {
		fmt.Fprintln(&b, res.Shape)
	}

	fmt.Fprintf(&b, "digest %s\n", res.Digest())

	if vars {
		for _, name := range slices.Sorted(maps.Keys(res.Vars)) {
			fmt.Fprintf(&b, "%s = %s\n", name, res.Vars[name])
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}
