package pty

import "fmt"

// Code classifies PTY failures into a closed set of variants.
type Code int

const (
	// CodeCreateFailed reports a failed pty allocation.
	CodeCreateFailed Code = iota + 1
	// CodeSpawnFailed reports a failed shell launch.
	CodeSpawnFailed
	// CodeWriteFailed reports a write or flush failure on the master side.
	CodeWriteFailed
	// CodeReadFailed is reserved for surfaced reader failures; the pump
	// itself stops silently and does not return it.
	CodeReadFailed
	// CodeResizeFailed reports a failed pty resize.
	CodeResizeFailed
	// CodeNotRunning reports an operation on a session that is not started.
	CodeNotRunning
)

func (c Code) message() string {
	switch c {
	case CodeCreateFailed:
		return "failed to create PTY"
	case CodeSpawnFailed:
		return "failed to spawn shell"
	case CodeWriteFailed:
		return "failed to write to PTY"
	case CodeReadFailed:
		return "failed to read from PTY"
	case CodeResizeFailed:
		return "failed to resize PTY"
	case CodeNotRunning:
		return "PTY not running"
	}
	return "unknown PTY error"
}

// Error is a classified PTY failure. Code identifies the variant and Err
// holds the underlying cause, if any.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.message()
	}
	return fmt.Sprintf("%s: %v", e.Code.message(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same Code, so callers can test
// errors.Is(err, ErrNotRunning) regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// ErrNotRunning is returned by operations that require a started session.
var ErrNotRunning = &Error{Code: CodeNotRunning}

func newError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}
