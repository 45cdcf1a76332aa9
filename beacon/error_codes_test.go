package beacon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeFromStatus(t *testing.T) {
	tests := map[int]ErrorCode{
		400: ErrCodeBadRequest,
		401: ErrCodeUnauthorized,
		403: ErrCodeUnauthorized,
		404: ErrCodeNotFound,
		500: ErrCodeServerError,
		503: ErrCodeServerError,
		418: ErrCodeUnknown,
	}
	for status, want := range tests {
		if got := ErrorCodeFromStatus(status); got != want {
			t.Errorf("ErrorCodeFromStatus(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestErrorCode_IsRetryable(t *testing.T) {
	for _, code := range []ErrorCode{ErrCodeServerError, ErrCodeNetwork, ErrCodeTimeout} {
		if !code.IsRetryable() {
			t.Errorf("%s should be retryable", code)
		}
	}
	for _, code := range []ErrorCode{ErrCodeInvalidArgument, ErrCodeUnauthorized, ErrCodeNotFound, ErrCodeParse} {
		if code.IsRetryable() {
			t.Errorf("%s should not be retryable", code)
		}
	}
}

func TestStructuredErrorFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"remote 401", &RemoteError{Status: 401, Message: "invalid secret key"}, ErrCodeUnauthorized},
		{"wrapped remote 404", fmt.Errorf("user alice: %w", &RemoteError{Status: 404}), ErrCodeNotFound},
		{"argument", argumentError("username"), ErrCodeInvalidArgument},
		{"config", &ConfigError{Field: "api key", Reason: "must not be empty"}, ErrCodeInvalidConfig},
		{"transport", &TransportError{Method: "GET", URL: "http://host", Err: errors.New("refused")}, ErrCodeNetwork},
		{"transport deadline", &TransportError{Method: "GET", URL: "http://host", Err: context.DeadlineExceeded}, ErrCodeTimeout},
		{"parse", &ParseError{Err: errors.New("bad")}, ErrCodeParse},
		{"nil request", ErrNilRequest, ErrCodeInvalidArgument},
		{"other", errors.New("something"), ErrCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := StructuredErrorFromError(tt.err)
			if se.Code != tt.want {
				t.Errorf("Code = %q, want %q", se.Code, tt.want)
			}
			if se.Retryable != tt.want.IsRetryable() {
				t.Errorf("Retryable = %v", se.Retryable)
			}
		})
	}

	if StructuredErrorFromError(nil) != nil {
		t.Error("nil error should map to nil")
	}
}

func TestStructuredError_PassThroughAndJSON(t *testing.T) {
	original := NewStructuredError(ErrCodeNotFound, "user alice not found")
	if got := StructuredErrorFromError(fmt.Errorf("wrap: %w", original)); got != original {
		t.Error("expected existing StructuredError to be returned")
	}

	se := StructuredErrorFromError(&RemoteError{Status: 404, Message: "user not online"})
	data, err := json.Marshal(se)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["code"] != "not_found" || decoded["retryable"] != false {
		t.Errorf("decoded = %v", decoded)
	}
	ctx, ok := decoded["context"].(map[string]any)
	if !ok || ctx["status"] != float64(404) {
		t.Errorf("context = %v", decoded["context"])
	}
	if decoded["suggestion"] == "" {
		t.Error("expected a suggestion")
	}
}
