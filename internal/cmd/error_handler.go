package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/config"
)

// HandleError renders err with suggestions for stderr.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var remoteErr *beacon.RemoteError
	var transportErr *beacon.TransportError

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("No credentials configured.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: beacon auth login --api-key KEY --secret-key SECRET\n")
		msg.WriteString("  - Or export BEACONPUSH_API_KEY and BEACONPUSH_SECRET_KEY\n")

	case errors.As(err, &remoteErr):
		fmt.Fprintf(&msg, "Beaconpush error (HTTP %d): %s\n\n", remoteErr.Status, remoteErr.Message)
		msg.WriteString(suggestionsForStatusCode(remoteErr.Status))

	case errors.As(err, &transportErr):
		fmt.Fprintf(&msg, "Request failed: %s\n\n", transportErr.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the base URL: beacon auth status\n")
		msg.WriteString("  - Check your network connection\n")
		if code := beacon.StructuredErrorFromError(err).Code; code == beacon.ErrCodeTimeout {
			msg.WriteString("  - Increase --timeout\n")
		}

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
		if se := beacon.StructuredErrorFromError(err); se != nil && se.Code != beacon.ErrCodeUnknown && se.Suggestion != "" {
			fmt.Fprintf(&msg, "\nSuggestion: %s\n", se.Suggestion)
		}
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var s strings.Builder
	s.WriteString("Suggestions:\n")

	switch {
	case code == 400:
		s.WriteString("  - Check the message is valid JSON\n")
		s.WriteString("  - Use --dry-run to see the request\n")
	case code == 401 || code == 403:
		s.WriteString("  - Your API key or secret key may be wrong\n")
		s.WriteString("  - Run: beacon auth login\n")
	case code == 404:
		s.WriteString("  - The user or channel does not exist or is offline\n")
	case code >= 500:
		s.WriteString("  - Server error - not your fault\n")
		s.WriteString("  - Wait and retry\n")
	default:
		s.WriteString("  - Use --debug for more details\n")
	}
	return s.String()
}
