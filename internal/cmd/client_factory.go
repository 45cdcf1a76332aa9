package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/beaconpush/beaconpush-go/beacon"
	"github.com/beaconpush/beaconpush-go/internal/config"
)

// version is set at build time via ldflags
var version = "dev"

func userAgent() string {
	return "beaconpush-cli/" + version
}

// resolveConfig resolves credentials honouring --profile.
func resolveConfig() (config.Resolved, error) {
	return config.Resolve(flags.Profile)
}

// getClient creates a client from resolved credentials and global flags.
func getClient(_ *cobra.Command) (*beacon.Client, error) {
	resolved, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	return newClient(resolved.Config)
}

func newClient(cfg beacon.Config) (*beacon.Client, error) {
	return beacon.New(cfg,
		beacon.WithHTTPClient(&http.Client{
			Timeout:   flags.Timeout,
			Transport: beacon.NewHTTPTransport().HTTP.Transport,
		}),
		beacon.WithUserAgent(userAgent()),
	)
}
