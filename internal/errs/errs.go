// Package errs defines the closed set of error kinds produced by the
// auth, social and posts services. Transport code maps a Kind to a status;
// the services never do.
package errs

import "errors"

// Kind is a machine-readable error category.
type Kind string

const (
	KindValidationFailed   Kind = "VALIDATION_FAILED"
	KindUserExists         Kind = "USER_EXISTS"
	KindUserNotFound       Kind = "USER_NOT_FOUND"
	KindPostNotFound       Kind = "POST_NOT_FOUND"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindTokenExpired       Kind = "TOKEN_EXPIRED"
	KindInvalidOperation   Kind = "INVALID_OPERATION"
	KindAlreadyFollowing   Kind = "ALREADY_FOLLOWING"
	KindNotFollowing       Kind = "NOT_FOLLOWING"
	KindStorageConflict    Kind = "STORAGE_CONFLICT"
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
	KindInternal           Kind = "INTERNAL"
)

// Error carries a Kind, a message safe to show to API clients and an
// optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that keeps cause in the chain.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Validation is shorthand for a VALIDATION_FAILED error.
func Validation(message string) *Error {
	return New(KindValidationFailed, message)
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HasKind reports whether err carries the given kind.
func HasKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
