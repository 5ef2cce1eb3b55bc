// Package errs defines the closed failure taxonomy returned by the repository
// and service layers. Storage-engine error shapes never cross this boundary;
// callers only ever see one of the kinds below.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindInternal is any unexpected storage or transport failure, including
	// timeouts. Its message is always generic, detail stays in the wrapped
	// cause for logging.
	KindInternal Kind = iota
	// KindNotFound means the referenced entry or like does not exist.
	KindNotFound
	// KindConflict means a uniqueness or foreign key constraint was violated,
	// or an optimistic lock check failed.
	KindConflict
	// KindInvalid means the input failed validation before reaching storage.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// Constraint discriminates conflict causes.
type Constraint string

const (
	ConstraintNone       Constraint = ""
	ConstraintUnique     Constraint = "unique"
	ConstraintForeignKey Constraint = "foreign_key"
)

type Error struct {
	Kind       Kind
	Constraint Constraint
	Message    string
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(constraint Constraint, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Constraint: constraint, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure. The message exposed to callers is
// deliberately generic, the cause is only reachable through Unwrap.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: cause}
}

// KindOf reports the taxonomy kind of err. Errors that did not pass through
// this package are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ConstraintOf reports the conflict constraint of err, if any.
func ConstraintOf(err error) Constraint {
	var e *Error
	if errors.As(err, &e) {
		return e.Constraint
	}
	return ConstraintNone
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

func IsInvalid(err error) bool {
	return KindOf(err) == KindInvalid
}
