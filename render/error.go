package render

import (
	"log/slog"
	"slices"
)

// Error is a rendering failure carrying attributes for structured logging.
// Copies made with [Error.Wrap] and [Error.With] match their sentinel under
// errors.Is.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

func newError(msg string) *Error { return &Error{msg: msg} }

func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}

	return e.msg + ": " + e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// LogValue groups the message, cause, and attributes.
func (e *Error) LogValue() slog.Value {
	head := []slog.Attr{slog.String("error", e.msg)}

	if e.err != nil {
		head = append(head, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(slices.Concat(head, e.attrs)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = slices.Concat(e.attrs, attrs)

	return &c
}

var (
	// ErrEmptyCanvas is returned when the margin leaves no room to draw.
	ErrEmptyCanvas = newError("canvas has no drawable area")
	// ErrDraw is returned when a path cannot be filled or stroked.
	ErrDraw = newError("draw")
	// ErrEncode is returned when the canvas cannot be written as PNG.
	ErrEncode = newError("encode PNG")
)
