package validation

import (
	"strings"
	"testing"
)

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantError bool
		errorText string
	}{
		{name: "hosted API", url: "http://api.beaconpush.com/1.0.0"},
		{name: "https with trailing slash", url: "https://api.beaconpush.com/1.0.0/"},
		{name: "on-site localhost", url: "http://localhost:6053/1.0.0"},
		{name: "private address", url: "http://10.0.0.5:6053"},
		{name: "empty", url: "", wantError: true, errorText: "cannot be empty"},
		{name: "blank", url: "   ", wantError: true, errorText: "cannot be empty"},
		{name: "ftp scheme", url: "ftp://api.beaconpush.com", wantError: true, errorText: "only http and https"},
		{name: "relative", url: "/1.0.0", wantError: true, errorText: "only http and https"},
		{name: "no host", url: "http:///1.0.0", wantError: true, errorText: "hostname"},
		{name: "metadata", url: "http://169.254.169.254/latest", wantError: true, errorText: "metadata"},
		{name: "gcp metadata subdomain", url: "http://foo.metadata.google.internal", wantError: true, errorText: "metadata"},
		{name: "query", url: "http://api.beaconpush.com/1.0.0?x=1", wantError: true, errorText: "query"},
		{name: "fragment", url: "http://api.beaconpush.com/1.0.0#top", wantError: true, errorText: "fragment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.url)
			if tt.wantError {
				if err == nil {
					t.Fatalf("ValidateBaseURL(%q) expected error", tt.url)
				}
				if !strings.Contains(err.Error(), tt.errorText) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errorText)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateBaseURL(%q) unexpected error: %v", tt.url, err)
			}
		})
	}
}

func TestAPIVersion(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"http://api.beaconpush.com/1.0.0", "1.0.0", true},
		{"http://api.beaconpush.com/1.0.0/", "1.0.0", true},
		{"http://localhost:6053/v2.1.3", "2.1.3", true},
		{"http://localhost:6053", "", false},
		{"http://localhost:6053/api", "", false},
		{"http://localhost:6053/1.0", "1.0", true},
	}

	for _, tt := range tests {
		got, ok := APIVersion(tt.url)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("APIVersion(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestValidateMessagePayload(t *testing.T) {
	if err := ValidateMessagePayload(`{"message":"hi"}`); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateMessagePayload(""); err == nil {
		t.Error("expected error for empty payload")
	}
	if err := ValidateMessagePayload("{not json"); err == nil || !strings.Contains(err.Error(), "valid JSON") {
		t.Errorf("expected JSON error, got %v", err)
	}
	big := `"` + strings.Repeat("a", MaxMessagePayload) + `"`
	if err := ValidateMessagePayload(big); err == nil || !strings.Contains(err.Error(), "maximum size") {
		t.Errorf("expected size error, got %v", err)
	}
}
