package types

import (
	"fmt"
	"strings"
)

// Error represents an HTTP error with status code and message.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// Error returns the error message string.
func (e Error) Error() string {
	return e.Message
}

// NewError creates a new Error with the specified status code and message.
func NewError(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ErrorLevel is the amount of error detail returned to HTTP clients.
type ErrorLevel string

// Valid error levels.
const (
	// ErrorLevelNone hides all error messages, leaving only the status text.
	ErrorLevelNone ErrorLevel = "none"
	// ErrorLevelMinimal keeps client error (4xx) messages, and hides the
	// details of server errors (5xx).
	ErrorLevelMinimal ErrorLevel = "minimal"
	// ErrorLevelFull keeps all error messages intact.
	ErrorLevelFull ErrorLevel = "full"
)

// UnmarshalText implements encoding.TextUnmarshaler, which is also used by
// the CLI parser.
func (l *ErrorLevel) UnmarshalText(text []byte) error {
	switch lvl := ErrorLevel(strings.ToLower(string(text))); lvl {
	case ErrorLevelNone, ErrorLevelMinimal, ErrorLevelFull:
		*l = lvl
	default:
		return fmt.Errorf("invalid error level '%s'", text)
	}
	return nil
}
