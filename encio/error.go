package encio

import (
	"errors"
	"runtime"
	"strings"
)

// Every error from the ply packages is one of the kinds below, wrapped with context.
// A failing io.Reader or io.Writer comes back as an IOError; the stream is unusable.
// Everything else (bad text, values that do not fit, calls in the wrong order) comes back as an Error,
// and the session that returned it keeps returning it.
// Nothing panics on bad input; only invalid arguments that the caller controls, like an unknown Format, do.
//
//	if errors.Is(err, encio.ErrTruncated) {
//		// the file ends inside an instance
//	}
//	var ioErr encio.IOError
//	if errors.As(err, &ioErr) {
//		// the stream itself failed
//	}
var (
	// ErrMalformedHeader is returned when the header is unparseable, or is missing its format or end_header line.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrSchemaClosed is returned when an element or property is declared after the body has begun.
	ErrSchemaClosed = errors.New("schema closed")

	// ErrTruncated is returned when the stream ends part way through a value or an element.
	ErrTruncated = errors.New("truncated input")

	// ErrEndOfInput is returned when a value is requested and the stream has nothing left.
	ErrEndOfInput = errors.New("end of input")

	// ErrMalformedValue is returned when a value cannot be represented in its declared type.
	ErrMalformedValue = errors.New("malformed value")

	// ErrInstanceCount is returned when a writer emits fewer or more instances than an element declares.
	ErrInstanceCount = errors.New("instance count mismatch")

	// ErrAborted reports that a handler asked for the body traversal to stop.
	// It is not a data error; the session simply refuses further reads.
	ErrAborted = errors.New("aborted by consumer")

	// ErrBadDeclaration is returned when an element or property declaration is invalid,
	// i.e. a duplicate name, a negative count or a non-integer list count type.
	ErrBadDeclaration = errors.New("bad declaration")

	// ErrUnknownProperty is returned when an element or property named by the caller is not declared.
	ErrUnknownProperty = errors.New("unknown element or property")

	// ErrOutOfOrder is returned when a written value does not belong to the property the schema expects next.
	ErrOutOfOrder = errors.New("value out of order")

	// ErrBadState is returned when an operation is not valid in the session's current state.
	ErrBadState = errors.New("bad state")

	// ErrTooLong is returned when a token or line does not fit in the tokenizer's window.
	ErrTooLong = errors.New("too long")
)

// NewIOError wraps a failure of the stream itself.
// An empty message is replaced with the name of the function calling NewIOError.
func NewIOError(err error, message string) error {
	if err == nil {
		err = errors.New("nil error")
	}
	if message == "" {
		message = GetCaller(1)
	}
	return IOError{Err: err, Message: message}
}

// IOError is a failure of the underlying io.Reader or io.Writer.
type IOError struct {
	Err     error
	Message string
}

func (e IOError) Error() string {
	if e.Message == "" {
		return "io: " + e.Err.Error()
	}
	return "io: " + e.Message + ": " + e.Err.Error()
}

func (e IOError) Unwrap() error { return e.Err }

// NewError wraps one of the error kinds with a description of where it happened.
// An empty caller is replaced with the name of the function calling NewError.
func NewError(kind error, message string, caller string) error {
	if caller == "" {
		caller = GetCaller(1)
	}
	return Error{Err: kind, Message: message, Caller: caller}
}

// Error is bad data, or a call the session could not accept.
type Error struct {
	Err     error
	Message string
	Caller  string
}

func (e Error) Error() string {
	var b strings.Builder
	if e.Caller != "" {
		b.WriteString(e.Caller)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e Error) Unwrap() error { return e.Err }

// GetCaller names a function on the call stack; skip 0 is the function calling GetCaller.
func GetCaller(skip int) string {
	var pc [1]uintptr
	if runtime.Callers(skip+2, pc[:]) == 0 {
		return "unknown"
	}
	frame, _ := runtime.CallersFrames(pc[:]).Next()
	return frame.Function
}
