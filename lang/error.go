package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
// Compare with [errors.Is]; derived errors match their sentinel by message.
var (
	ErrLex              = NewError("lex error")
	ErrParse            = NewError("parse error")
	ErrExec             = NewError("execution error")
	ErrReadInput        = NewError("failed to read input")
	ErrMaxDepthExceeded = NewError("maximum nesting depth exceeded")

	ErrUnknownVariable    = NewError("unknown variable")
	ErrRedefinition       = NewError("variable already defined")
	ErrTypeMismatch       = NewError("type mismatch")
	ErrNullValue          = NewError("null value")
	ErrFieldAccess        = NewError("invalid field access")
	ErrUnknownFunction    = NewError("unknown function")
	ErrDuplicateFunction  = NewError("duplicate function")
	ErrArgument           = NewError("invalid argument")
	ErrMissingArgument    = NewError("missing argument")
	ErrMissingInput       = NewError("missing input parameter")
	ErrInputType          = NewError("mismatched input type")
	ErrInputValue         = NewError("invalid input value")
	ErrLoopControl        = NewError("loop control outside a loop")
	ErrLoopStep           = NewError("invalid loop step")
	ErrExportSlot         = NewError("invalid export slot")
	ErrMissingExport      = NewError("no shape exported")
	ErrNotShape           = NewError("exported value is not a shape")
	ErrVertexOutsideShape = NewError("vertex outside a shape definition")
	ErrCallDepth          = NewError("maximum call depth exceeded")
	ErrIterationLimit     = NewError("maximum loop iterations exceeded")
)

// Error represents an error with an optional source position and
// structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	err   error
	pos   *Position
	msg   string
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
//	"<msg> at <line>:<col>: <err>"
//
// Each part is omitted when unset.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos != nil {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString("at ")
		sb.WriteString(e.pos.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same message.
// Every error derived from a sentinel by [Error.Wrap], [Error.Wrapf],
// [Error.With], or [Error.WithPosition] therefore matches that sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// Position returns the source position attached to e, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("pos", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		pos:   e.pos,
		err:   err,
		attrs: e.attrs,
	}
}

// Wrapf wraps a formatted message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		pos:   e.pos,
		err:   e.err,
		attrs: newAttrs,
	}
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		pos:   &pos,
		err:   e.err,
		attrs: e.attrs,
	}
}
