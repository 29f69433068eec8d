// Package envelope builds the uniform response document returned for every
// gateway request: {metadata, results} on success, {error:{code,message}}
// otherwise.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Sternrassler/wb-gateway/pkg/pagination"
)

// SuccessBody is the body of a successful envelope.
type SuccessBody struct {
	Metadata json.RawMessage   `json:"metadata"`
	Results  []json.RawMessage `json:"results"`
}

// ErrorDetail is the inner error object.
type ErrorDetail struct {
	Code    ErrorKind `json:"code"`
	Message string    `json:"message"`
}

// ErrorBody is the body of an error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// Envelope is a response body together with its HTTP status.
type Envelope struct {
	Status int
	Body   any
}

// Success wraps an aggregation result.
func Success(res *pagination.Result) Envelope {
	body := SuccessBody{
		Metadata: res.Metadata,
		Results:  res.Results,
	}
	if body.Results == nil {
		body.Results = []json.RawMessage{}
	}
	if body.Metadata == nil {
		body.Metadata = json.RawMessage("null")
	}
	return Envelope{Status: http.StatusOK, Body: body}
}

// FromError converts any error into an error envelope. Unknown errors become
// UnhandledException.
func FromError(err error) Envelope {
	var (
		gwErr     *Error
		apiErr    *pagination.APIError
		structErr *pagination.StructureError
	)

	switch {
	case err == nil:
		return newError(KindUnhandledException, http.StatusInternalServerError, "unknown error")
	case errors.As(err, &gwErr):
		return newError(gwErr.Kind, statusFor(gwErr.Kind), gwErr.Message)
	case errors.As(err, &apiErr):
		return newError(KindAPIError, forwardedStatus(apiErr.StatusCode),
			fmt.Sprintf("upstream API returned status %d: %s", apiErr.StatusCode, apiErr.Body))
	case errors.As(err, &structErr):
		return newError(KindUnexpectedStructure, http.StatusBadGateway,
			"upstream response did not match [metadata, results]: "+structErr.Reason)
	default:
		return newError(KindUnhandledException, http.StatusInternalServerError, err.Error())
	}
}

func newError(kind ErrorKind, status int, message string) Envelope {
	return Envelope{
		Status: status,
		Body:   ErrorBody{Error: ErrorDetail{Code: kind, Message: message}},
	}
}

// forwardedStatus returns the upstream status when an error body can be sent
// with it, and 502 otherwise.
func forwardedStatus(status int) int {
	switch {
	case status < 200 || status > 599:
		return http.StatusBadGateway
	case status == http.StatusNoContent || status == http.StatusNotModified:
		return http.StatusBadGateway
	default:
		return status
	}
}

func statusFor(kind ErrorKind) int {
	if status, ok := statusForKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Kind returns the error kind of an error envelope, or "" on success.
func (e Envelope) Kind() ErrorKind {
	if body, ok := e.Body.(ErrorBody); ok {
		return body.Error.Code
	}
	return ""
}

// Bytes renders the envelope body as JSON.
func (e Envelope) Bytes() ([]byte, error) {
	return json.Marshal(e.Body)
}

// Write writes the envelope as a UTF-8 JSON response.
func (e Envelope) Write(w http.ResponseWriter) error {
	data, err := e.Bytes()
	status := e.Status
	if err != nil {
		fallback := newError(KindUnhandledException, http.StatusInternalServerError, "failed to encode response")
		data, _ = fallback.Bytes()
		status = fallback.Status
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, werr := w.Write(data); werr != nil {
		return fmt.Errorf("write envelope: %w", werr)
	}
	return err
}
