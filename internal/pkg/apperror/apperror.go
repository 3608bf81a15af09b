// Package apperror defines the failure kinds shared by every domain package.
// Domain sentinels wrap exactly one kind so the HTTP layer can map them to a
// status code without knowing each domain.
package apperror

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidState      = errors.New("invalid state")
	ErrConflict          = errors.New("conflict")
)

// Error is a domain error with its own message that unwraps to a kind.
type Error struct {
	kind error
	msg  string
}

// New returns an error reporting msg that matches kind under errors.Is.
func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Message returns the innermost domain message carried by err, or fallback
// when err does not wrap an *Error.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.msg
	}
	return fallback
}
