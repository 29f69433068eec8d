package envelope

import (
	"fmt"
	"net/http"
)

// ErrorKind is the stable error code placed in error envelopes.
type ErrorKind string

// Error kinds.
const (
	KindInvalidOperation    ErrorKind = "InvalidOperation"
	KindInvalidParameter    ErrorKind = "InvalidParameter"
	KindAPIError            ErrorKind = "APIError"
	KindUnexpectedStructure ErrorKind = "UnexpectedStructure"
	KindUnhandledException  ErrorKind = "UnhandledException"
)

// statusForKind maps fixed-status error kinds to HTTP status codes. APIError
// is absent because it forwards the upstream status.
var statusForKind = map[ErrorKind]int{
	KindInvalidOperation:    http.StatusBadRequest,
	KindInvalidParameter:    http.StatusBadRequest,
	KindUnexpectedStructure: http.StatusBadGateway,
	KindUnhandledException:  http.StatusInternalServerError,
}

// Error is a gateway error that already knows its envelope representation.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewInvalidOperationError returns an InvalidOperation error for id.
func NewInvalidOperationError(id string) *Error {
	return &Error{
		Kind:    KindInvalidOperation,
		Message: fmt.Sprintf("operation %q is not supported", id),
	}
}

// NewInvalidParameterError returns an InvalidParameter error.
func NewInvalidParameterError(name, value, reason string) *Error {
	return &Error{
		Kind:    KindInvalidParameter,
		Message: fmt.Sprintf("parameter %s=%q %s", name, value, reason),
	}
}
