package dstk

import (
	"fmt"
)

// UnreachableServerError reports that the service could not be reached, or
// that whatever answered at the base address is not a DSTK server.
type UnreachableServerError struct {
	URL string
	Err error
}

func (e *UnreachableServerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("the server at %q doesn't appear to be running DSTK", e.URL)
	}
	return fmt.Sprintf("the server at %q doesn't appear to be running DSTK: %v", e.URL, e.Err)
}

func (e *UnreachableServerError) Unwrap() error { return e.Err }

// IncompatibleServerError is returned by New when /info reports a protocol
// version older than RequiredVersion.
type IncompatibleServerError struct {
	URL      string
	Found    int
	Required int
}

func (e *IncompatibleServerError) Error() string {
	return fmt.Sprintf("DSTK: version %d found at %q but %d is required", e.Found, e.URL, e.Required)
}

// RemoteServiceError carries the service's own error message verbatim.
type RemoteServiceError struct {
	Endpoint string
	Status   int
	Message  string
}

// Error returns the message reported by the service, unchanged.
func (e *RemoteServiceError) Error() string {
	return e.Message
}

// MalformedResponseError means the service answered, but not with the
// payload shape the endpoint documents.
type MalformedResponseError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *MalformedResponseError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("malformed response from %s (status %d): %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
