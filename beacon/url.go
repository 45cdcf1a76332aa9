package beacon

import (
	"net/url"
	"strings"

	"github.com/beaconpush/beaconpush-go/internal/validation"
)

// BuildURL joins baseURL, accountID and resourcePath into an absolute URL of
// the form baseURL/accountID/resourcePath. Trailing slashes on baseURL and
// leading, trailing or repeated slashes in resourcePath are dropped, so the
// result does not depend on how the caller spelled the separators.
func BuildURL(baseURL, accountID, resourcePath string) (string, error) {
	if baseURL == "" {
		return "", &ConfigError{Field: "base URL", Reason: "must not be empty"}
	}
	if accountID == "" {
		return "", &ConfigError{Field: "account id", Reason: "must not be empty"}
	}
	if err := validation.ValidateBaseURL(baseURL); err != nil {
		return "", &ConfigError{Field: "base URL", Reason: err.Error()}
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteByte('/')
	b.WriteString(url.PathEscape(accountID))
	if resource := cleanResourcePath(resourcePath); resource != "" {
		b.WriteByte('/')
		b.WriteString(resource)
	}
	return b.String(), nil
}

func cleanResourcePath(resourcePath string) string {
	segments := strings.Split(resourcePath, "/")
	kept := segments[:0]
	for _, segment := range segments {
		if segment != "" {
			kept = append(kept, segment)
		}
	}
	return strings.Join(kept, "/")
}
