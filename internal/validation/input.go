package validation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxMessagePayload caps message bodies read from flags or stdin (1MB).
const MaxMessagePayload = 1048576

// ValidateMessagePayload checks that payload is a non-empty JSON document
// within MaxMessagePayload bytes.
func ValidateMessagePayload(payload string) error {
	if strings.TrimSpace(payload) == "" {
		return fmt.Errorf("message payload cannot be empty")
	}

	// byte length, payloads are sent as UTF-8
	if length := len(payload); length > MaxMessagePayload {
		return fmt.Errorf("message payload exceeds maximum size of %d bytes (got %d)", MaxMessagePayload, length)
	}

	if !json.Valid([]byte(payload)) {
		return fmt.Errorf("message payload must be valid JSON")
	}

	return nil
}
