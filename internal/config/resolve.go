package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/beaconpush/beaconpush-go/beacon"
)

// Source says where resolved credentials came from.
type Source string

const (
	SourceEnv     Source = "environment"
	SourceProfile Source = "profile"
)

// Resolved is a client configuration plus its origin.
type Resolved struct {
	Config  beacon.Config
	Source  Source
	Profile string
}

// AccountFromEnv builds an account from BEACONPUSH_* variables. ok is false
// when neither an API key nor an operator id is set.
func AccountFromEnv() (account Account, ok bool, err error) {
	apiKey := strings.TrimSpace(os.Getenv(EnvAPIKey))
	operatorID := strings.TrimSpace(os.Getenv(EnvOperatorID))
	baseURL := strings.TrimSpace(os.Getenv(EnvBaseURL))

	switch {
	case apiKey != "" && operatorID != "":
		return Account{}, false, fmt.Errorf("set only one of %s and %s", EnvAPIKey, EnvOperatorID)
	case apiKey != "":
		return Account{
			Mode:      beacon.Hosted.String(),
			APIKey:    apiKey,
			SecretKey: os.Getenv(EnvSecretKey),
			BaseURL:   baseURL,
		}, true, nil
	case operatorID != "":
		return Account{
			Mode:       beacon.OnSite.String(),
			OperatorID: operatorID,
			BaseURL:    baseURL,
		}, true, nil
	}
	return Account{}, false, nil
}

// Resolve returns the client configuration to use. Environment credentials
// win over profiles. The profile is chosen by name, then BEACONPUSH_PROFILE,
// then the current profile. BEACONPUSH_BASE_URL overrides the stored base
// URL of a profile.
func Resolve(profile string) (Resolved, error) {
	account, ok, err := AccountFromEnv()
	if err != nil {
		return Resolved{}, err
	}
	if ok {
		cfg, err := account.BeaconConfig()
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Config: cfg, Source: SourceEnv}, nil
	}

	if profile == "" {
		profile = strings.TrimSpace(os.Getenv(EnvProfile))
	}
	if profile == "" {
		if profile, err = CurrentProfile(); err != nil {
			return Resolved{}, err
		}
	}

	account, err = LoadProfile(profile)
	if err != nil {
		return Resolved{}, err
	}
	if baseURL := strings.TrimSpace(os.Getenv(EnvBaseURL)); baseURL != "" {
		account.BaseURL = baseURL
	}
	cfg, err := account.BeaconConfig()
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Config: cfg, Source: SourceProfile, Profile: profile}, nil
}
