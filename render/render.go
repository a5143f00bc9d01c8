package render

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/gogpu/gg"

	"github.com/ardnew/shapescript/geom"
)

// checkEvery is the number of triangles drawn between context checks.
const checkEvery = 1024

// Shape draws s scaled to fit the canvas and writes it to w as PNG.
// The shape's aspect ratio is preserved and it is centered on the canvas.
func Shape(ctx context.Context, w io.Writer, s *geom.Shape, opts ...Option) error {
	cfg := makeConfig(opts...)

	area, err := cfg.area()
	if err != nil {
		return err
	}

	return cfg.draw(ctx, w, func(dc *gg.Context) error {
		if s == nil {
			return nil
		}

		return cfg.triangles(ctx, dc, s, fit(s.Extent, area))
	})
}

// Adaptive lays a out across the canvas and writes it to w as PNG.
// Slot shapes are placed at their exported pixel size.
func Adaptive(ctx context.Context, w io.Writer, a *geom.Adaptive, opts ...Option) error {
	cfg := makeConfig(opts...)

	area, err := cfg.area()
	if err != nil {
		return err
	}

	return cfg.draw(ctx, w, func(dc *gg.Context) error {
		if a == nil {
			return nil
		}

		for _, p := range a.Layout(area) {
			cfg.logger.TraceContext(ctx, "render slot",
				slog.String("slot", p.Slot.Long()),
				slog.String("rect", p.Rect.String()))

			if err := cfg.triangles(ctx, dc, p.Shape, identity); err != nil {
				return err
			}
		}

		return nil
	})
}

// area returns the canvas rectangle inside the margin.
func (c config) area() (geom.Rect, error) {
	r := geom.Rect{
		X:      c.margin,
		Y:      c.margin,
		Width:  float64(c.width) - 2*c.margin,
		Height: float64(c.height) - 2*c.margin,
	}

	if r.Empty() {
		return r, ErrEmptyCanvas.With(
			slog.Int("width", c.width),
			slog.Int("height", c.height),
			slog.Float64("margin", c.margin),
		)
	}

	return r, nil
}

func (c config) draw(ctx context.Context, w io.Writer, paint func(*gg.Context) error) error {
	dc := gg.NewContext(c.width, c.height)
	defer dc.Close()

	dc.ClearWithColor(c.background)
	dc.SetFillRule(gg.FillRuleNonZero)

	if err := paint(dc); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "encode png",
		slog.Int("width", c.width),
		slog.Int("height", c.height))

	if err := dc.EncodePNG(w); err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}

// triangles fills, and optionally outlines, every triangle of s after
// mapping its vertices through xf.
func (c config) triangles(ctx context.Context, dc *gg.Context, s *geom.Shape, xf transform) error {
	n := 0

	for tri := range s.Triangles() {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		n++

		a, b, d := xf(tri[0]), xf(tri[1]), xf(tri[2])

		path := func() {
			dc.MoveTo(a.X, a.Y)
			dc.LineTo(b.X, b.Y)
			dc.LineTo(d.X, d.Y)
			dc.ClosePath()
		}

		path()
		dc.SetRGBA(c.fill.R, c.fill.G, c.fill.B, c.fill.A)

		if err := dc.Fill(); err != nil {
			return ErrDraw.Wrap(err).With(slog.Int("triangle", n))
		}

		if c.lineWidth > 0 {
			path()
			dc.SetRGBA(c.line.R, c.line.G, c.line.B, c.line.A)
			dc.SetLineWidth(c.lineWidth)

			if err := dc.Stroke(); err != nil {
				return ErrDraw.Wrap(err).With(slog.Int("triangle", n))
			}
		}
	}

	c.logger.TraceContext(ctx, "render shape", slog.Int("triangles", n))

	return nil
}

type transform func(geom.Vertex) geom.Vertex

func identity(v geom.Vertex) geom.Vertex { return v }

// fit maps src uniformly into dst, centered. A degenerate source extent
// maps to the center of dst.
func fit(src, dst geom.Rect) transform {
	k := math.Inf(1)

	if src.Width > 0 {
		k = dst.Width / src.Width
	}

	if src.Height > 0 {
		k = math.Min(k, dst.Height/src.Height)
	}

	if math.IsInf(k, 1) {
		k = 1
	}

	from, to := src.Center(), dst.Center()

	return func(v geom.Vertex) geom.Vertex {
		return geom.Vertex{
			X: to.X + (v.X-from.X)*k,
			Y: to.Y + (v.Y-from.Y)*k,
		}
	}
}
