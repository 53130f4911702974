package partners

import (
	"errors"
	"fmt"
)

// ErrEmptySnapshot is returned when the profile endpoint answers JSON null.
var ErrEmptySnapshot = errors.New("profile snapshot is null")

// NetworkError is a transport failure or a non-2xx answer from the backend.
// StatusCode is 0 when no response was received.
type NetworkError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("partners %s %s: HTTP error! status: %d", e.Method, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("partners %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError means the backend answered 2xx with a body that is not the
// expected JSON.
type DecodeError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("partners %s %s: decode response: %v", e.Method, e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err came from the wrapper. Decode failures
// count as network failures for callers.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var decErr *DecodeError
	return errors.As(err, &decErr)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.StatusCode
	}
	return 0
}
