package core

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable classification carried by every error the core
// returns. Adapters map kinds to transport status codes.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "INVALID_INPUT"
	KindDuplicateKey       ErrorKind = "DUPLICATE_KEY"
	KindReferenceNotFound  ErrorKind = "REFERENCE_NOT_FOUND"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindConflict           ErrorKind = "CONFLICT"
	KindUnauthenticated    ErrorKind = "UNAUTHENTICATED"
	KindInvalidCredential  ErrorKind = "INVALID_CREDENTIAL"
	KindPrincipalNotFound  ErrorKind = "PRINCIPAL_NOT_FOUND"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindStorageUnavailable ErrorKind = "STORAGE_UNAVAILABLE"
	KindInternal           ErrorKind = "INTERNAL"
)

// Error is a classified failure with a human-readable message.
// Err, when set, is the underlying cause and is reachable through errors.Unwrap.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match against kind-only sentinels such as ErrNotFound,
// so callers can write errors.Is(err, core.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Retryable reports whether the caller may retry the operation with backoff.
func (e *Error) Retryable() bool { return e.Kind == KindStorageUnavailable }

var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrDuplicateKey       = &Error{Kind: KindDuplicateKey}
	ErrReferenceNotFound  = &Error{Kind: KindReferenceNotFound}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrInvalidCredential  = &Error{Kind: KindInvalidCredential}
	ErrPrincipalNotFound  = &Error{Kind: KindPrincipalNotFound}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrStorageUnavailable = &Error{Kind: KindStorageUnavailable}
	ErrInternal           = &Error{Kind: KindInternal}
)

// Errorf builds a classified error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a classified error around an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message of a classified error
// without the underlying cause.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal server error"
}
