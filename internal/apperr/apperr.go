// Package apperr defines the error taxonomy surfaced by the catalog and
// lifecycle layers.  Every failure leaving the core is an *Error with a
// Kind; the Kind alone decides the HTTP status and the stable code that
// clients see.  Raw storage errors are kept as the wrapped cause for
// logging and are never rendered.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindAlreadyReturned
	KindConflict
	KindTransaction
)

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so errors.Is(err,
// apperr.ErrNotFound) works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrAlreadyReturned = &Error{Kind: KindAlreadyReturned}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrTransaction     = &Error{Kind: KindTransaction}
)

// Code returns the stable machine-readable code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindAlreadyReturned:
		return "already_returned"
	case KindConflict:
		return "conflict"
	case KindTransaction:
		return "transaction_error"
	}
	return "internal_error"
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindAlreadyReturned:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyReturned(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyReturned, Message: fmt.Sprintf(format, args...)}
}

func Conflict(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...), Err: cause}
}

func Transaction(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindTransaction, Message: fmt.Sprintf(format, args...), Err: cause}
}

// As extracts the *Error from err.  Anything that is not classified is
// reported as a transaction error so nothing unclassified reaches callers.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Transaction(err, "unexpected storage failure")
}
