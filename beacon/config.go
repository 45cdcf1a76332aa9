package beacon

import "strings"

// DefaultBaseURL is the hosted Beaconpush REST endpoint.
const DefaultBaseURL = "http://api.beaconpush.com/1.0.0"

// Mode selects between the hosted service and an on-site installation.
type Mode int

const (
	// Hosted is the multi-tenant service addressed by API key and secret key.
	Hosted Mode = iota
	// OnSite is a single-tenant installation addressed by operator id.
	OnSite
)

func (m Mode) String() string {
	switch m {
	case Hosted:
		return "hosted"
	case OnSite:
		return "on-site"
	default:
		return "unknown"
	}
}

// Config describes how to reach a Beaconpush deployment. Hosted mode uses
// APIKey, SecretKey and BaseURL; on-site mode uses OperatorID and BaseURL.
type Config struct {
	Mode       Mode
	APIKey     string
	SecretKey  string
	OperatorID string
	BaseURL    string
}

// HostedConfig returns a hosted-mode configuration. An empty baseURL selects
// DefaultBaseURL.
func HostedConfig(apiKey, secretKey, baseURL string) Config {
	return Config{Mode: Hosted, APIKey: apiKey, SecretKey: secretKey, BaseURL: baseURL}
}

// OnSiteConfig returns an on-site configuration.
func OnSiteConfig(operatorID, baseURL string) Config {
	return Config{Mode: OnSite, OperatorID: operatorID, BaseURL: baseURL}
}

// AccountID returns the identifier placed in front of every resource path:
// the API key when hosted, the operator id when on-site.
func (c Config) AccountID() string {
	if c.Mode == OnSite {
		return c.OperatorID
	}
	return c.APIKey
}

// Secret returns the secret key sent with each request, if any. On-site
// installations never send one.
func (c Config) Secret() string {
	if c.Mode == OnSite {
		return ""
	}
	return c.SecretKey
}

func (c Config) baseURL() string {
	if c.Mode == Hosted && strings.TrimSpace(c.BaseURL) == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

// Validate reports the first missing or malformed field as a *ConfigError.
func (c Config) Validate() error {
	switch c.Mode {
	case Hosted:
		if c.APIKey == "" {
			return &ConfigError{Field: "api key", Reason: "must not be empty"}
		}
		if c.SecretKey == "" {
			return &ConfigError{Field: "secret key", Reason: "must not be empty in hosted mode"}
		}
	case OnSite:
		if c.OperatorID == "" {
			return &ConfigError{Field: "operator id", Reason: "must not be empty"}
		}
		if c.BaseURL == "" {
			return &ConfigError{Field: "base URL", Reason: "must not be empty in on-site mode"}
		}
	default:
		return &ConfigError{Field: "mode", Reason: "must be hosted or on-site"}
	}
	_, err := BuildURL(c.baseURL(), c.AccountID(), "")
	return err
}
