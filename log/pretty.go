package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	keyColor    = color.New(color.FgHiBlack)
	stringColor = color.New(color.FgCyan)
	numberColor = color.New(color.FgYellow)
	trueColor   = color.New(color.FgGreen)
	falseColor  = color.New(color.FgRed)
	timeColor   = color.New(color.FgBlue)
	errorColor  = color.New(color.FgRed, color.Bold)
)

func levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgRed, color.Bold)
	case l >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case l >= slog.LevelInfo:
		return color.New(color.FgGreen)
	case l >= slog.LevelDebug:
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgMagenta)
	}
}

// prettyHandler writes colorized records, either as a single line of
// key=value pairs or as an indented JSON-like block.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	block      bool
	prefix     string
	attrs      []slog.Attr
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	block bool,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
		block:      block,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	e := &prettyEntry{block: h.block}

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			e.field(slog.TimeKey, timeColor.Sprint(s))
		}
	}

	e.field(slog.LevelKey, levelColor(r.Level).Sprint(levelName(r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			e.field(slog.SourceKey, stringColor.Sprintf("%s:%d", src.File, src.Line))
		}
	}

	e.field(slog.MessageKey, stringColor.Sprint(r.Message))

	for _, a := range h.attrs {
		e.attr("", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		e.attr(h.prefix, a)

		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(e.bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		c.attrs = append(c.attrs, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// prettyEntry accumulates the fields of one record.
type prettyEntry struct {
	buf   bytes.Buffer
	block bool
	n     int
}

func (e *prettyEntry) field(key, value string) {
	switch {
	case e.block && e.n == 0:
		e.buf.WriteString("{\n  ")
	case e.block:
		e.buf.WriteString(",\n  ")
	case e.n > 0:
		e.buf.WriteByte(' ')
	}

	e.n++

	e.buf.WriteString(keyColor.Sprint(key))

	if e.block {
		e.buf.WriteString(": ")
	} else {
		e.buf.WriteByte('=')
	}

	e.buf.WriteString(value)
}

func (e *prettyEntry) attr(prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range v.Group() {
			e.attr(prefix, g)
		}

		return
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	e.field(prefix+a.Key, prettyValue(v))
}

func (e *prettyEntry) bytes() []byte {
	if e.block {
		e.buf.WriteString("\n}")
	}

	e.buf.WriteByte('\n')

	return e.buf.Bytes()
}

func prettyValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringColor.Sprint(v.String())
	case slog.KindInt64:
		return numberColor.Sprint(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return numberColor.Sprint(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return numberColor.Sprint(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return trueColor.Sprint("true")
		}

		return falseColor.Sprint("false")
	case slog.KindDuration:
		return numberColor.Sprint(v.Duration().String())
	case slog.KindTime:
		return timeColor.Sprint(v.Time().Format(time.RFC3339))
	}

	switch x := v.Any().(type) {
	case nil:
		return keyColor.Sprint("null")
	case error:
		return errorColor.Sprint(x.Error())
	case fmt.Stringer:
		return stringColor.Sprint(x.String())
	default:
		return stringColor.Sprint(strings.TrimSpace(fmt.Sprint(x)))
	}
}
