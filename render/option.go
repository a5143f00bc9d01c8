package render

import (
	"github.com/gogpu/gg"

	"github.com/ardnew/shapescript/log"
)

// Default canvas settings.
const (
	DefaultWidth      = 256
	DefaultHeight     = 256
	DefaultMargin     = 8
	DefaultFill       = "#4c8bf5"
	DefaultBackground = "#00000000"
	DefaultLine       = "#1b1b1b"
)

type config struct {
	logger     log.Logger
	fill       gg.RGBA
	background gg.RGBA
	line       gg.RGBA
	width      int
	height     int
	margin     float64
	lineWidth  float64
}

func makeConfig(opts ...Option) config {
	c := config{
		width:      DefaultWidth,
		height:     DefaultHeight,
		margin:     DefaultMargin,
		fill:       gg.Hex(DefaultFill),
		background: gg.Hex(DefaultBackground),
		line:       gg.Hex(DefaultLine),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// Option configures a render call.
type Option func(*config)

// WithSize sets the canvas size in pixels. Non-positive values keep the
// default.
func WithSize(width, height int) Option {
	return func(c *config) {
		if width > 0 {
			c.width = width
		}

		if height > 0 {
			c.height = height
		}
	}
}

// WithMargin sets the blank border kept around the geometry.
func WithMargin(px float64) Option {
	return func(c *config) { c.margin = max(px, 0) }
}

// WithFill sets the triangle fill color as a hex string ("#rrggbb" or
// "#rrggbbaa").
func WithFill(hex string) Option {
	return func(c *config) { c.fill = gg.Hex(hex) }
}

// WithBackground sets the canvas color. The default is transparent.
func WithBackground(hex string) Option {
	return func(c *config) { c.background = gg.Hex(hex) }
}

// WithWireframe strokes every triangle edge with the given width. Zero
// disables the wireframe.
func WithWireframe(width float64, hex string) Option {
	return func(c *config) {
		c.lineWidth = max(width, 0)
		if hex != "" {
			c.line = gg.Hex(hex)
		}
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}
