package storefront

import (
	"fmt"
	"strings"
)

// TransportError means the remote call could not complete: network failure,
// a non-2xx status without a structured body, or top-level GraphQL errors.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError means the call completed at the transport level but the API
// returned field-level user errors, or the expected result object was
// absent. The message is the joined list of user error messages, falling
// back to a generic per-operation message when the list is empty.
type APIError struct {
	Op       string
	Messages []string
	Fallback string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, ", ")
	}
	return e.Fallback
}
