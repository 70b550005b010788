package auth

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure of the login and registration flows.
type ErrorKind int

// Valid error kinds.
const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidCredentials
	KindConflict
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("unknown (%d)", int(k))
	}
}

// Error is a domain failure. Its message is safe to show to clients.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Sentinel values for use with errors.Is. They match any *Error of the same
// kind.
var (
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
)

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error of the same kind. A target with a
// non-empty message must also match the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if there
// is none.
func KindOf(err error) ErrorKind {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Kind
	}
	return 0
}

func userNotFound(username string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("User %s not found!", username)}
}

func invalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid credentials!"}
}

func usernameTaken(username string) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf("Username %s already exists!", username)}
}

func unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}
