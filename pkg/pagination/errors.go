package pagination

import (
	"fmt"
)

// APIError is returned when the upstream answers a page request with a
// non-success status. The body text is kept verbatim.
type APIError struct {
	StatusCode int
	Body       string
	Page       int
	URL        string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned status %d for page %d: %s", e.StatusCode, e.Page, e.Body)
}

// StructureError is returned when a page body is not a
// [metadata, results[]] pair.
type StructureError struct {
	Page   int
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected upstream structure on page %d: %s: %v", e.Page, e.Reason, e.Err)
	}
	return fmt.Sprintf("unexpected upstream structure on page %d: %s", e.Page, e.Reason)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *StructureError) Unwrap() error {
	return e.Err
}
