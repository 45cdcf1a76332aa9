// Package dryrun previews the request an operation would send without
// sending it.
package dryrun

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/beaconpush/beaconpush-go/beacon"
)

type contextKey struct{}

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(contextKey{}).(bool); ok {
		return v
	}
	return false
}

const secretHeader = "X-Beacon-Secret-Key"

// Preview describes a request that was built but not executed.
type Preview struct {
	Operation string            `json:"operation"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers"`
	Body      string            `json:"body,omitempty"`
}

// FromRequest captures req for display. The secret key header is masked.
func FromRequest(operation string, req *beacon.Request) *Preview {
	headers := make(map[string]string)
	for name, values := range req.Header() {
		value := strings.Join(values, ", ")
		if strings.EqualFold(name, secretHeader) {
			value = MaskSecret(value)
		}
		headers[name] = value
	}
	return &Preview{
		Operation: operation,
		Method:    req.Method(),
		URL:       req.URL(),
		Headers:   headers,
		Body:      req.Body(),
	}
}

// MaskSecret keeps the first four characters of a secret.
func MaskSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-4)
}

// Write outputs the preview to the writer
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] Would %s\n", p.Operation)
	_, _ = fmt.Fprintf(w, "  %s %s\n", p.Method, p.URL)

	names := make([]string, 0, len(p.Headers))
	for name := range p.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", name, p.Headers[name])
	}

	if p.Body != "" {
		_, _ = fmt.Fprintf(w, "\n  %s\n", p.Body)
	}
	_, _ = fmt.Fprintln(w, "No request sent (dry-run mode)")
}
