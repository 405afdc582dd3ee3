package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrRateLimited        = errors.New("rate limited")
	ErrInternalServer     = errors.New("internal server error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Kind classifies a failure for the scheduler's retry/skip/disable policy.
type Kind int

const (
	// KindUnexpected is anything the classifier could not place; callers
	// treat the cycle result as empty rather than crashing.
	KindUnexpected Kind = iota
	// KindPermanent means retrying cannot help (feed deleted, forbidden).
	KindPermanent
	// KindRateLimited is transient and worth backing off for.
	KindRateLimited
	// KindTransient covers server and transport failures.
	KindTransient
)

// Error represents a custom error type
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithKind wraps an error and tags it with a failure kind.
func WrapWithKind(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Permanent tags an error as not worth retrying.
func Permanent(err error, message string) error {
	return WrapWithKind(err, KindPermanent, message)
}

// Transient tags an error as retryable.
func Transient(err error, message string) error {
	return WrapWithKind(err, KindTransient, message)
}

// RateLimited tags an error as an upstream throttle response.
func RateLimited(err error, message string) error {
	return WrapWithKind(err, KindRateLimited, message)
}

// KindOf returns the failure kind of err, or KindUnexpected when untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// IsPermanent reports whether err is tagged as permanent.
func IsPermanent(err error) bool {
	return KindOf(err) == KindPermanent
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	k := KindOf(err)
	return k == KindRateLimited || k == KindTransient
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound returns true if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden returns true if the error is a forbidden error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
