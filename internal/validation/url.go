// Package validation checks user-supplied base URLs and message payloads
// before they reach the Beaconpush client.
//
// Base URLs may point at localhost or private addresses, since on-site
// Beaconpush deployments usually run next to the application. Cloud metadata
// endpoints are always rejected.
package validation

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/mod/semver"
)

// ValidateBaseURL checks that rawURL is an absolute http or https URL with a
// hostname and no query string or fragment.
func ValidateBaseURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", parsedURL.Scheme)
	}

	hostname := parsedURL.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must contain a hostname")
	}

	if isCloudMetadata(hostname) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}

	if parsedURL.RawQuery != "" || parsedURL.ForceQuery {
		return fmt.Errorf("URL must not contain a query string")
	}
	if parsedURL.Fragment != "" {
		return fmt.Errorf("URL must not contain a fragment")
	}

	return nil
}

// APIVersion extracts the trailing API version segment of a base URL, such as
// "1.0.0" in http://api.beaconpush.com/1.0.0. The second result is false
// when the last path segment is not a semantic version.
func APIVersion(rawURL string) (string, bool) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	segment := path.Base(strings.TrimRight(parsedURL.Path, "/"))
	if segment == "" || segment == "." || segment == "/" {
		return "", false
	}
	version := strings.TrimPrefix(segment, "v")
	if !semver.IsValid("v" + version) {
		return "", false
	}
	return version, true
}

// isCloudMetadata checks for cloud metadata endpoints
func isCloudMetadata(hostname string) bool {
	lowercase := strings.ToLower(hostname)
	cloudMetadataEndpoints := []string{
		"169.254.169.254",          // AWS, Azure, GCP, DigitalOcean
		"metadata.google.internal", // GCP
		"metadata",
		"instance-data", // AWS
		"fd00:ec2::254", // AWS IPv6
	}

	for _, endpoint := range cloudMetadataEndpoints {
		if lowercase == endpoint {
			return true
		}
	}

	return strings.HasSuffix(lowercase, ".metadata.google.internal")
}
