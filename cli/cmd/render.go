package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/shapescript/geom"
	"github.com/ardnew/shapescript/log"
	"github.com/ardnew/shapescript/render"
)

// Render runs a script and rasterizes its export to PNG. An adaptive
// export is laid out to fill the whole canvas. With Flatten, it is instead
// resolved at the canvas size into one shape and scaled to fit inside the
// margin like any other shape.
type Render struct {
	Limits `embed:""`

	Input      []string `help:"Bind a declared input (name=expr)." placeholder:"NAME=EXPR" short:"i"`
	Output     string   `default:"-"                  help:"PNG file to write, or '-' for stdout." short:"o" type:"path"`
	Width      int      `default:"${renderWidth}"     help:"Canvas width in pixels."`
	Height     int      `default:"${renderHeight}"    help:"Canvas height in pixels."`
	Margin     float64  `default:"${renderMargin}"    help:"Blank border in pixels."`
	Fill       string   `default:"${renderFill}"      help:"Fill color as #RGB[A] or #RRGGBB[AA]."`
	Background string   `default:"${renderBackground}" help:"Background color."`
	Wireframe  float64  `default:"0"                  help:"Stroke triangle edges this wide; 0 disables."`
	Line       string   `default:"${renderLine}"      help:"Wireframe color."`
	Flatten    bool     `help:"Resolve an adaptive export into one shape before drawing."`

	Script string `arg:"" default:"-" help:"Script path, name on the search path, or '-' for stdin." name:"script"`
}

// RenderVars supplies the defaults interpolated into [Render] tags.
func RenderVars() kong.Vars {
	return kong.Vars{
		"renderWidth":      strconv.Itoa(render.DefaultWidth),
		"renderHeight":     strconv.Itoa(render.DefaultHeight),
		"renderMargin":     strconv.Itoa(render.DefaultMargin),
		"renderFill":       render.DefaultFill,
		"renderBackground": render.DefaultBackground,
		"renderLine":       render.DefaultLine,
	}
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	res, err := runScript(ctx, r.Script, r.Input, r.Limits)
	if err != nil {
		return err
	}

	w, done, err := r.output(ctx)
	if err != nil {
		return ErrRender.Wrap(err).With(slog.String("output", r.Output))
	}

	opts := []render.Option{
		render.WithSize(r.Width, r.Height),
		render.WithMargin(r.Margin),
		render.WithFill(r.Fill),
		render.WithBackground(r.Background),
		render.WithWireframe(r.Wireframe, r.Line),
		render.WithLogger(log.Default()),
	}

	switch {
	case res.IsAdaptive() && r.Flatten:
		canvas := geom.Rect{Width: float64(r.Width), Height: float64(r.Height)}
		err = render.Shape(ctx, w, res.Adaptive.Flatten(canvas), opts...)
	case res.IsAdaptive():
		err = render.Adaptive(ctx, w, res.Adaptive, opts...)
	default:
		err = render.Shape(ctx, w, res.Shape, opts...)
	}

	if cerr := done(); err == nil {
		err = cerr
	}

	if err != nil {
		return ErrRender.Wrap(err).With(slog.String("output", r.Output))
	}

	log.DebugContext(ctx, "rendered",
		slog.String("output", r.Output),
		slog.Int("width", r.Width),
		slog.Int("height", r.Height),
		slog.Bool("adaptive", res.IsAdaptive()),
		slog.Bool("flatten", r.Flatten),
	)

	return nil
}

// output opens the PNG destination. done flushes and closes it.
func (r *Render) output(ctx context.Context) (io.Writer, func() error, error) {
	if r.Output == "" || r.Output == "-" {
		bw := bufio.NewWriter(stdout(ctx))

		return bw, bw.Flush, nil
	}

	f, err := os.Create(r.Output)
	if err != nil {
		return nil, nil, err
	}

	bw := bufio.NewWriter(f)

	return bw, func() error {
		if err := bw.Flush(); err != nil {
			f.Close()

			return err
		}

		return f.Close()
	}, nil
}
