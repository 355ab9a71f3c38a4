package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// User-facing copy for the failure taxonomy. Callers pick between these via
// UserMessage rather than branching on wording themselves.
const (
	msgNetwork        = "Could not reach the HabitX servers. Check your connection and try again."
	msgUnauthorized   = "Your session has expired. Please log in again."
	msgDataCorruption = "Some of your data could not be read by the server. Our team has been notified; your habits are safe."
	msgMaintenance    = "HabitX is briefly down for maintenance. Try again in a few minutes."
	msgGeneric        = "Something went wrong. Please try again later."
)

// codeDataCorruption is the structured code the backend emits for its known
// date-serialization defect. Older backend builds emit the raw stack trace
// instead, which is why dataCorruptionSignature is still consulted.
const (
	codeDataCorruption      = "DATA_CORRUPTION"
	dataCorruptionSignature = "toISOString"
)

// Error is a non-2xx backend response carrying the HTTP status for
// caller-side branching.
type Error struct {
	Status  int
	Code    string
	Message string
	Body    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error %d", e.Status)
}

// NetworkError is a transport-level failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// IsDataCorruption reports whether err is the backend's known
// date-serialization defect, either via structured code or the legacy body
// signature.
func IsDataCorruption(err error) bool {
	var ae *Error
	if !errors.As(err, &ae) {
		return false
	}
	if ae.Code == codeDataCorruption {
		return true
	}
	return ae.Status == http.StatusInternalServerError &&
		strings.Contains(ae.Body, dataCorruptionSignature)
}

// UserMessage maps an error from the gateway to user-facing copy.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsNetwork(err) {
		return msgNetwork
	}
	if IsDataCorruption(err) {
		return msgDataCorruption
	}
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Status {
		case http.StatusUnauthorized:
			return msgUnauthorized
		case http.StatusServiceUnavailable:
			return msgMaintenance
		}
	}
	return msgGeneric
}
