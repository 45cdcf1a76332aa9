// Package beacon is a client for the Beaconpush push-messaging REST API.
//
// A Client exposes the online user count and hands out Channel and User
// handles. Every operation builds one request, executes it once through the
// configured Transport and checks the response status:
//
//	client, err := beacon.New(beacon.HostedConfig("my-api-key", "my-secret-key", ""))
//	if err != nil {
//		return err
//	}
//	channel, _ := client.Channel("lobby")
//	err = channel.Send(ctx, map[string]string{"message": "hello"})
//
// Failures reported by the service surface as *RemoteError; invalid input as
// *ArgumentError before any request is made.
package beacon

import (
	"context"
	"net/http"
	"strings"
)

// deps are the collaborators shared by the client and every handle it creates.
type deps struct {
	builder   *RequestBuilder
	coder     JSONCoder
	transport Transport
}

// roundTrip executes req and checks the outcome against expected.
func (d deps) roundTrip(ctx context.Context, req *Request, expected ...int) (*Response, error) {
	resp, err := d.transport.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(d.coder, resp, expected...); err != nil {
		return nil, err
	}
	return resp, nil
}

func (d deps) decode(resp *Response, v any) error {
	return d.coder.Unmarshal([]byte(resp.Body), v)
}

// encode serializes message, rejecting values that encode to JSON null such
// as nil pointers, maps and slices.
func (d deps) encode(message any) (string, error) {
	if message == nil {
		return "", argumentError("message")
	}
	data, err := d.coder.Marshal(message)
	if err != nil {
		return "", err
	}
	if body := strings.TrimSpace(string(data)); body == "" || body == "null" {
		return "", argumentError("message")
	}
	return string(data), nil
}

// Client is the entry point to a Beaconpush account. It is immutable and safe
// for concurrent use when its Transport is.
type Client struct {
	deps
}

// Option customizes a Client built by New.
type Option func(*options)

type options struct {
	transport  Transport
	coder      JSONCoder
	httpClient *http.Client
	userAgent  string
}

// WithTransport replaces the HTTP transport.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithJSONCoder replaces the JSON serializer.
func WithJSONCoder(c JSONCoder) Option {
	return func(o *options) { o.coder = c }
}

// WithHTTPClient sets the http.Client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithUserAgent sets the User-Agent header sent by the default transport.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// New creates a client for cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	builder, err := NewRequestBuilder(cfg)
	if err != nil {
		return nil, err
	}

	transport := o.transport
	if transport == nil {
		httpTransport := NewHTTPTransport()
		if o.httpClient != nil {
			httpTransport.HTTP = o.httpClient
		}
		httpTransport.UserAgent = o.userAgent
		transport = httpTransport
	}
	coder := o.coder
	if coder == nil {
		coder = DefaultJSONCoder{}
	}

	return NewWithDependencies(builder, coder, transport)
}

// NewWithDependencies creates a client from explicit collaborators.
func NewWithDependencies(builder *RequestBuilder, coder JSONCoder, transport Transport) (*Client, error) {
	if builder == nil {
		return nil, argumentError("request builder")
	}
	if coder == nil {
		return nil, argumentError("JSON coder")
	}
	if transport == nil {
		return nil, argumentError("transport")
	}
	return &Client{deps{builder: builder, coder: coder, transport: transport}}, nil
}

// RequestBuilder returns the builder requests are made with.
func (c *Client) RequestBuilder() *RequestBuilder {
	return c.builder
}

// OnlineUserCount returns the number of users currently connected.
func (c *Client) OnlineUserCount(ctx context.Context) (int64, error) {
	req, err := c.builder.OnlineUserCountRequest()
	if err != nil {
		return 0, err
	}
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return 0, err
	}
	var data onlineUserCountData
	if err := c.decode(resp, &data); err != nil {
		return 0, err
	}
	return data.Online, nil
}

// Channel returns a handle for the named channel.
func (c *Client) Channel(name string) (*Channel, error) {
	if name == "" {
		return nil, argumentError("name")
	}
	return &Channel{deps: c.deps, name: name}, nil
}

// User returns a handle for the named user.
func (c *Client) User(username string) (*User, error) {
	if username == "" {
		return nil, argumentError("username")
	}
	return &User{deps: c.deps, username: username}, nil
}
