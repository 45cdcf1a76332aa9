package beacon

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNilRequest is returned by a Transport asked to execute a nil request.
	ErrNilRequest = errors.New("request must not be nil")
	// ErrMissingURL is returned by a Transport asked to execute a request without a URL.
	ErrMissingURL = errors.New("request URL must have a value")
)

// ArgumentError reports an empty or absent required argument. It is always
// raised before any network activity.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must not be empty"
	}
	return fmt.Sprintf("invalid argument %s: %s", e.Name, reason)
}

// ConfigError reports a malformed base URL or a missing account identifier.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// TransportError indicates that no HTTP response could be obtained.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is returned whenever the service answers with an unexpected
// status. Status and Message come from the error envelope when the body holds
// one, otherwise from the raw HTTP status and body.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("beaconpush error (status %d): %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("beaconpush error (status %d): %s", e.Status, e.Message)
}

// ParseError wraps a failure to decode a JSON document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response format (JSON decode failed): %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func argumentError(name string) error {
	return &ArgumentError{Name: name}
}

// IsArgumentError checks if the error is an invalid argument error.
func IsArgumentError(err error) bool {
	var e *ArgumentError
	return errors.As(err, &e)
}

// IsConfigError checks if the error is an invalid configuration error.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsTransportError checks if the error is a network-level failure.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsRemoteError checks if the error was reported by the remote service.
func IsRemoteError(err error) bool {
	var e *RemoteError
	return errors.As(err, &e)
}

// IsNotFound checks if the remote service reported a 404.
func IsNotFound(err error) bool {
	var e *RemoteError
	if errors.As(err, &e) {
		return e.Status == http.StatusNotFound
	}
	return false
}
