package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// RuntimeError is an error that occurred while executing a command. It can
// include a hint that tells the user how to resolve it.
type RuntimeError struct {
	Message string
	Cause   error
	Hint    string
}

// NewRuntimeError returns a new RuntimeError.
func NewRuntimeError(msg string, cause error, hint string) *RuntimeError {
	return &RuntimeError{Message: msg, Cause: cause, Hint: hint}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Cause)
}

// Unwrap allows errors.Is and errors.As to work.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Errorf writes a user-friendly rendering of err to w, including the hint of
// a RuntimeError if there is one.
func Errorf(w io.Writer, err error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", err)

	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.Hint != "" {
		fmt.Fprintf(&sb, "Hint: %s\n", rerr.Hint)
	}

	_, _ = io.WriteString(w, sb.String())
}
