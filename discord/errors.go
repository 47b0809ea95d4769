package discord

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure by who needs to hear about it.
type ErrorKind int

const (
	// ErrorKindUnexpected is any failure while building or sending a reply.
	// It is logged and the user receives a generic apology.
	ErrorKindUnexpected ErrorKind = iota
	// ErrorKindInvalidInput is a malformed or missing command argument.
	ErrorKindInvalidInput
	// ErrorKindPermissionDenied is an unprivileged user invoking a privileged command.
	ErrorKindPermissionDenied
	// ErrorKindStartup is an authentication or command registration failure.
	ErrorKindStartup
	// ErrorKindUnhandled is a panic that escaped an event handler.
	ErrorKindUnhandled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnexpected:
		return "unexpected"
	case ErrorKindInvalidInput:
		return "invalid_input"
	case ErrorKindPermissionDenied:
		return "permission_denied"
	case ErrorKindStartup:
		return "startup"
	case ErrorKindUnhandled:
		return "unhandled"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error carries a kind and, for user facing kinds, the message shown to the user.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserFacing reports whether the message can be shown to the invoking user as is.
func (e *Error) UserFacing() bool {
	return e.Kind == ErrorKindInvalidInput || e.Kind == ErrorKindPermissionDenied
}

// InvalidInput rejects a command with msg shown to the user.
func InvalidInput(msg string) error {
	return &Error{Kind: ErrorKindInvalidInput, Message: msg}
}

// PermissionDenied rejects a command the user is not allowed to run.
func PermissionDenied(msg string) error {
	return &Error{Kind: ErrorKindPermissionDenied, Message: msg}
}

func unexpected(msg string, err error) error {
	return &Error{Kind: ErrorKindUnexpected, Message: msg, Err: err}
}

func startupFailure(msg string, err error) error {
	return &Error{Kind: ErrorKindStartup, Message: msg, Err: err}
}

// KindOf returns the kind of err. Errors that carry no kind are unexpected.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindUnexpected
}
