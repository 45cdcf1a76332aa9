package beacon

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/beaconpush/beaconpush-go/internal/debug"
)

// DefaultTimeout bounds a single round trip made by HTTPTransport.
const DefaultTimeout = 30 * time.Second

// Transport executes one request and returns the raw response. HTTP error
// statuses are ordinary responses; only failures that prevent obtaining a
// response are returned as errors.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

func (f TransportFunc) Execute(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// HTTPTransport executes requests with net/http. It performs no retries.
type HTTPTransport struct {
	HTTP      *http.Client
	UserAgent string
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport returns a transport with its own TLS 1.2+ connection
// settings and DefaultTimeout.
func NewHTTPTransport() *HTTPTransport {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	return &HTTPTransport{
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// Execute performs a single round trip.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if req.URL() == "" {
		return nil, ErrMissingURL
	}

	var bodyReader io.Reader
	if req.Body() != "" {
		bodyReader = strings.NewReader(req.Body())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), req.URL(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for name, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	if t.UserAgent != "" {
		httpReq.Header.Set("User-Agent", t.UserAgent)
	}

	client := t.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", req.Method(), "url", req.URL(), "error", err)
		}
		return nil, &TransportError{Method: req.Method(), URL: req.URL(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method(), URL: req.URL(), Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", req.Method(), "url", req.URL(), "status", resp.StatusCode, "duration", time.Since(start))
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(respBody)}, nil
}
