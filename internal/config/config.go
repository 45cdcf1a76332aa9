// Package config stores Beaconpush credentials as named profiles in the OS
// keychain and resolves them, with environment overrides, into a
// beacon.Config.
package config

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/beaconpush/beaconpush-go/beacon"
)

const (
	defaultProfile = "default"

	EnvBaseURL    = "BEACONPUSH_BASE_URL"
	EnvAPIKey     = "BEACONPUSH_API_KEY"
	EnvSecretKey  = "BEACONPUSH_SECRET_KEY"
	EnvOperatorID = "BEACONPUSH_OPERATOR_ID"
	EnvProfile    = "BEACONPUSH_PROFILE"
)

// Account holds the connection details of one profile.
type Account struct {
	Mode       string `json:"mode"`
	BaseURL    string `json:"base_url,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
	SecretKey  string `json:"secret_key,omitempty"`
	OperatorID string `json:"operator_id,omitempty"`
}

// BeaconConfig converts the account into a validated client configuration.
func (a Account) BeaconConfig() (beacon.Config, error) {
	var cfg beacon.Config
	switch a.Mode {
	case "", beacon.Hosted.String():
		cfg = beacon.HostedConfig(a.APIKey, a.SecretKey, a.BaseURL)
	case beacon.OnSite.String():
		cfg = beacon.OnSiteConfig(a.OperatorID, a.BaseURL)
	default:
		return beacon.Config{}, &beacon.ConfigError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", a.Mode)}
	}
	if err := cfg.Validate(); err != nil {
		return beacon.Config{}, err
	}
	return cfg, nil
}

// ErrNotConfigured is returned when neither the environment nor a profile
// supplies credentials.
var ErrNotConfigured = errors.New("beaconpush not configured - run 'beacon auth login' first")

func profileName(name string) string {
	if name == "" {
		return defaultProfile
	}
	return name
}

// SaveProfile stores the account under a named profile and makes it current.
func SaveProfile(profile string, account Account) error {
	profile = profileName(profile)
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.write(profileItemKey(profile), account); err != nil {
		return fmt.Errorf("save profile %q: %w", profile, err)
	}
	names, err := st.profiles()
	if err != nil {
		return err
	}
	if err := st.setProfiles(append(names, profile)); err != nil {
		return err
	}
	return st.setCurrent(profile)
}

// LoadProfile returns the account stored under profile.
func LoadProfile(profile string) (Account, error) {
	profile = profileName(profile)
	st, err := openStore()
	if err != nil {
		return Account{}, err
	}
	var account Account
	found, err := st.read(profileItemKey(profile), &account)
	if err != nil {
		return Account{}, fmt.Errorf("load profile %q: %w", profile, err)
	}
	if !found {
		return Account{}, ErrNotConfigured
	}
	return account, nil
}

// DeleteProfile removes a stored profile. When it was current, the first
// remaining profile becomes current.
func DeleteProfile(profile string) error {
	profile = profileName(profile)
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.remove(profileItemKey(profile)); err != nil {
		return fmt.Errorf("delete profile %q: %w", profile, err)
	}

	names, err := st.profiles()
	if err != nil {
		return err
	}
	remaining := lo.Without(names, profile)
	if err := st.setProfiles(remaining); err != nil {
		return err
	}

	if current, err := st.current(); err == nil && current == profile {
		return st.setCurrent(lo.FirstOr(remaining, defaultProfile))
	}
	return nil
}

// ListProfiles returns stored profile names in the order they were added.
func ListProfiles() ([]string, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	return st.profiles()
}

// CurrentProfile returns the profile used when none is named.
func CurrentProfile() (string, error) {
	st, err := openStore()
	if err != nil {
		return "", err
	}
	return st.current()
}

// SetCurrentProfile makes profile the one used when none is named.
func SetCurrentProfile(profile string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	return st.setCurrent(profileName(profile))
}
