package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies a failure independently of the transport.
// The HTTP layer is the only place that maps a Kind to a status code.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindDuplicate       Kind = "DUPLICATE_IDENTITY"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// Error is the domain error carried from services up to the handlers.
type Error struct {
	Kind    Kind
	Message string
	Details []string // every violated constraint, for KindValidation
	Err     error    // underlying cause, never serialized
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ========================================
// CONSTRUCTORS
// ========================================

func Validation(details ...string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Details: details}
}

func Duplicate(message string) *Error {
	return New(KindDuplicate, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Internal wraps an unexpected infrastructure failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// ========================================
// HELPERS
// ========================================

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromValidation converts the output of ozzo-validation into a KindValidation error
// listing every violated field, sorted by field name. Nil stays nil.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return Internal(err)
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return Validation(err.Error())
	}

	return Validation(flatten("", fieldErrs)...)
}

func flatten(prefix string, errs validation.Errors) []string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	details := make([]string, 0, len(keys))
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}

		var nested validation.Errors
		if errors.As(errs[k], &nested) {
			details = append(details, flatten(name, nested)...)
			continue
		}
		details = append(details, fmt.Sprintf("%s: %s", name, errs[k].Error()))
	}
	return details
}
