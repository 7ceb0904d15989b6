// Package apperr defines the typed error taxonomy surfaced by workflow and
// board operations.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operational failure.
type Kind int

const (
	// KindPermissionDenied means the caller is not allowed to perform a
	// guarded transition (wrong actor).
	KindPermissionDenied Kind = iota
	// KindInvalidTransition means the operation is not legal from the
	// piece's current status.
	KindInvalidTransition
	// KindNotFound means a referenced content piece, column, or request is
	// missing.
	KindNotFound
	// KindValidation means a required field is missing or malformed.
	KindValidation
	// KindTransientIO means a network or store failure; the caller may retry.
	KindTransientIO
)

// Error carries a failure kind plus a user-facing message. Messages are
// written to be actionable ("only the client's designated approver may
// approve"), not generic.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "operation failed"
}

func (e *Error) Unwrap() error { return e.Err }

// PermissionDenied builds a permission error with a caller-facing message.
func PermissionDenied(message string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: message}
}

// InvalidTransition builds an error for an operation that is not legal from
// the current status.
func InvalidTransition(op, from string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot %s a piece in status %q", op, from),
	}
}

// NotFound builds an error for a missing entity.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// Validation builds an error naming the missing or invalid field.
func Validation(field, problem string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %s", field, problem),
	}
}

// TransientIO wraps a store or network failure.
func TransientIO(err error) *Error {
	return &Error{Kind: KindTransientIO, Message: "temporary storage failure", Err: err}
}

// KindOf extracts the kind from err, returning ok=false for untyped errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
