package core

import "errors"

var (
	// ErrInvalidInput is the kind of every error caused by malformed or missing input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is the kind of every error caused by a reference to a room or thread that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned by the gateway when the app key does not match.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is an error of a specific kind.
// The message is safe to return to the client, errors.Is matches both the
// error itself and its kind.
type Error struct {
	msg  string
	kind error
}

func NewInvalidInputError(msg string) *Error {
	return &Error{msg: msg, kind: ErrInvalidInput}
}

func NewNotFoundError(msg string) *Error {
	return &Error{msg: msg, kind: ErrNotFound}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}
