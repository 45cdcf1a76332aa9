package beacon

import "testing"

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		account  string
		resource string
		want     string
	}{
		{"simple", "http://api.beaconpush.com/1.0.0", "key", "users", "http://api.beaconpush.com/1.0.0/key/users"},
		{"trailing slash on base", "http://host/", "key", "channels/lobby", "http://host/key/channels/lobby"},
		{"repeated slashes", "http://host", "key", "/channels//lobby/", "http://host/key/channels/lobby"},
		{"empty resource", "http://host/api", "key", "", "http://host/api/key"},
		{"escaped account", "http://host", "a b", "users", "http://host/a%20b/users"},
		{"https", "https://host:8443/v1", "op", "users/alice", "https://host:8443/v1/op/users/alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tt.base, tt.account, tt.resource)
			if err != nil {
				t.Fatalf("BuildURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildURL_SeparatorsDoNotMatter(t *testing.T) {
	a, err := BuildURL("http://host/", "key", "channels//name")
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildURL("http://host", "key", "/channels/name/")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("%q != %q", a, b)
	}
}

func TestBuildURL_Idempotent(t *testing.T) {
	first, _ := BuildURL("http://host", "key", "users/alice")
	second, _ := BuildURL("http://host", "key", "users/alice")
	if first != second {
		t.Errorf("%q != %q", first, second)
	}
}

func TestBuildURL_Errors(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		account string
	}{
		{"empty base", "", "key"},
		{"empty account", "http://host", ""},
		{"relative base", "/api", "key"},
		{"ftp scheme", "ftp://host", "key"},
		{"query string", "http://host/api?x=1", "key"},
		{"metadata host", "http://169.254.169.254/latest", "key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildURL(tt.base, tt.account, "users")
			if !IsConfigError(err) {
				t.Errorf("BuildURL() error = %v, want *ConfigError", err)
			}
		})
	}
}
