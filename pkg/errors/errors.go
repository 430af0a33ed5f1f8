package errors

import (
	stdErrors "errors"
	"net/http"
)

// Code is the stable machine-readable error identifier sent to clients.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeReference    Code = "REFERENCE_ERROR"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeIdempotency  Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeDependency   Code = "DEPENDENCY_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Metadata describes how a code is rendered over HTTP.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

const (
	retryable   = true
	withDetails = true
)

func meta(status int, retry bool, public string, details bool) Metadata {
	return Metadata{HTTPStatus: status, Retryable: retry, PublicMessage: public, DetailsAllowed: details}
}

// Storage failures surface as CodeDependency; a client may retry them.
var metadataByCode = map[Code]Metadata{
	CodeValidation:   meta(http.StatusBadRequest, false, "validation failed", withDetails),
	CodeReference:    meta(http.StatusUnprocessableEntity, false, "referenced record does not exist", withDetails),
	CodeNotFound:     meta(http.StatusNotFound, false, "resource not found", false),
	CodeConflict:     meta(http.StatusConflict, false, "conflict detected", false),
	CodeUnauthorized: meta(http.StatusUnauthorized, false, "authentication required", false),
	CodeForbidden:    meta(http.StatusForbidden, false, "access denied", false),
	CodeIdempotency:  meta(http.StatusConflict, false, "idempotency key reused", withDetails),
	CodeRateLimit:    meta(http.StatusTooManyRequests, false, "rate limit exceeded", false),
	CodeDependency:   meta(http.StatusServiceUnavailable, retryable, "dependency unavailable", withDetails),
	CodeInternal:     meta(http.StatusInternalServerError, retryable, "internal server error", false),
}

// MetadataFor returns the rendering rules for code. Unknown codes render as
// internal errors.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error every layer returns. The cause is kept for logs
// and never rendered.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches client-visible details, such as a field map.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.code) + ": " + e.message
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
