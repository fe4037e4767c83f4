package serrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. Every error that crosses
// a controller boundary carries exactly one kind.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindAuth       Kind = "auth"
	KindBatch      Kind = "batch"
	KindInternal   Kind = "internal"
)

type Base struct {
	kind    Kind
	code    string
	message string
	field   string
	cause   error
}

func (e *Base) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Base) Kind() Kind      { return e.kind }
func (e *Base) Code() string    { return e.code }
func (e *Base) Message() string { return e.message }
func (e *Base) Field() string   { return e.field }
func (e *Base) Unwrap() error   { return e.cause }

// WithField returns a copy annotated with the offending field name.
func (e *Base) WithField(field string) *Base {
	clone := *e
	clone.field = field
	return &clone
}

// WithCause returns a copy wrapping the underlying error.
func (e *Base) WithCause(cause error) *Base {
	clone := *e
	clone.cause = cause
	return &clone
}

func NewError(code, message, field string) *Base {
	return &Base{kind: KindInternal, code: code, message: message, field: field}
}

func Validation(code, message string) *Base {
	return &Base{kind: KindValidation, code: code, message: message}
}

func Conflict(code, message string) *Base {
	return &Base{kind: KindConflict, code: code, message: message}
}

func NotFound(code, message string) *Base {
	return &Base{kind: KindNotFound, code: code, message: message}
}

func Auth(code, message string) *Base {
	return &Base{kind: KindAuth, code: code, message: message}
}

func Internal(code, message string) *Base {
	return &Base{kind: KindInternal, code: code, message: message}
}

// KindOf extracts the kind from err, unwrapping as needed.
// Errors without a Base in their chain report KindInternal.
func KindOf(err error) Kind {
	var base *Base
	if errors.As(err, &base) {
		return base.kind
	}
	var batch *BatchError
	if errors.As(err, &batch) {
		return KindBatch
	}
	return KindInternal
}

// AsBase returns the first Base in the chain, or nil.
func AsBase(err error) *Base {
	var base *Base
	if errors.As(err, &base) {
		return base
	}
	return nil
}
