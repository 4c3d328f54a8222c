package sdk

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMalformedCredential is returned when a credential does not decode into a Principal.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrAuthenticationExpired is returned when the API answered 401. By the time the
	// caller sees it the local session has already been cleared.
	ErrAuthenticationExpired = errors.New("authentication expired")

	// ErrNoCredential is returned by CredentialStore.Load when nothing is persisted.
	ErrNoCredential = errors.New("no credential stored")

	// ErrMalformedResponse marks a 2xx response whose body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response body")
)

// MalformedCredentialError describes why a credential was rejected.
// It matches ErrMalformedCredential with errors.Is.
type MalformedCredentialError struct {
	Reason string
	Err    error
}

func (e *MalformedCredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedCredential, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedCredential, e.Reason)
}

func (e *MalformedCredentialError) Is(target error) bool {
	return target == ErrMalformedCredential
}

func (e *MalformedCredentialError) Unwrap() error {
	return e.Err
}

// TransportError wraps a network-level failure (DNS, refused connection, timeout).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-2xx answer from the API other than 401.
type RemoteError struct {
	StatusCode int
	Method     string
	URL        string
	// Message is the server-provided message when the body carried one,
	// otherwise a generic description of the status.
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ValidationError reports input rejected before any request was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsNotFound reports whether err is a RemoteError with status 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsForbidden reports whether err is a RemoteError with status 403.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// StatusCode extracts the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	if errors.Is(err, ErrAuthenticationExpired) {
		return http.StatusUnauthorized
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode
	}
	return 0
}

// UserMessage renders err the way an end user should see it.
func UserMessage(err error) string {
	var (
		remote    *RemoteError
		transport *TransportError
		invalid   *ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedCredential):
		return "Invalid token format. Please check your JWT token."
	case errors.Is(err, ErrAuthenticationExpired):
		return "Your session has expired. Please log in again."
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &transport):
		return "Cannot connect to the ticketing server."
	case errors.As(err, &remote):
		return remote.Message
	default:
		return err.Error()
	}
}

func genericStatusMessage(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "request failed"
	}
	return strings.ToLower(text)
}
