package beacon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// ErrorCode is a machine-readable classification of a failed operation.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates an empty or absent required argument.
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	// ErrCodeInvalidConfig indicates a malformed base URL or missing account identifier.
	ErrCodeInvalidConfig ErrorCode = "invalid_configuration"
	// ErrCodeBadRequest indicates the service rejected the request (HTTP 400).
	ErrCodeBadRequest ErrorCode = "bad_request"
	// ErrCodeUnauthorized indicates a missing or wrong secret key (HTTP 401/403).
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeNotFound indicates an unknown user, channel or account (HTTP 404).
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeServerError indicates a failure inside the service (HTTP 5xx).
	ErrCodeServerError ErrorCode = "server_error"
	// ErrCodeNetwork indicates no HTTP response was received.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeTimeout indicates the round trip exceeded its deadline.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeParse indicates a successful response carried an unreadable body.
	ErrCodeParse ErrorCode = "parse_error"
	// ErrCodeUnknown indicates an unclassified error.
	ErrCodeUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed when the caller tries again.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrCodeServerError, ErrCodeNetwork, ErrCodeTimeout:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable hint for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "Check that every name, username and message is non-empty"
	case ErrCodeInvalidConfig:
		return "Run 'beacon auth login' or check BEACONPUSH_BASE_URL"
	case ErrCodeBadRequest:
		return "Check the message payload is valid JSON"
	case ErrCodeUnauthorized:
		return "Verify the API key and secret key"
	case ErrCodeNotFound:
		return "Verify the user or channel name"
	case ErrCodeServerError:
		return "The service encountered an error; try again later"
	case ErrCodeNetwork:
		return "Check the base URL and network connectivity"
	case ErrCodeTimeout:
		return "The request timed out; increase --timeout or retry"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(status int) ErrorCode {
	switch {
	case status == 400:
		return ErrCodeBadRequest
	case status == 401 || status == 403:
		return ErrCodeUnauthorized
	case status == 404:
		return ErrCodeNotFound
	case status >= 500 && status < 600:
		return ErrCodeServerError
	default:
		return ErrCodeUnknown
	}
}

// StructuredError provides machine-readable error information for scripts.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type alias StructuredError
	return json.Marshal((*alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// StructuredErrorFromError classifies any error returned by this package.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		se := NewStructuredError(ErrorCodeFromStatus(remoteErr.Status), remoteErr.Error())
		se.Context = map[string]any{"status": remoteErr.Status}
		return se
	}

	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		se := NewStructuredError(ErrCodeInvalidArgument, argErr.Error())
		se.Context = map[string]any{"argument": argErr.Name}
		return se
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		se := NewStructuredError(ErrCodeInvalidConfig, cfgErr.Error())
		se.Context = map[string]any{"field": cfgErr.Field}
		return se
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		code := ErrCodeNetwork
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			code = ErrCodeTimeout
		}
		se := NewStructuredError(code, transportErr.Error())
		se.Context = map[string]any{"method": transportErr.Method, "url": transportErr.URL}
		return se
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return NewStructuredError(ErrCodeParse, parseErr.Error())
	}

	if errors.Is(err, ErrNilRequest) || errors.Is(err, ErrMissingURL) {
		return NewStructuredError(ErrCodeInvalidArgument, err.Error())
	}

	return NewStructuredError(ErrCodeUnknown, err.Error())
}
