package beacon

import (
	"net/http"
	"net/url"
)

const (
	usersResource    = "users"
	channelsResource = "channels"
)

// RequestBuilder produces the request for each remote capability from a
// validated Config. It holds no mutable state.
type RequestBuilder struct {
	baseURL   string
	accountID string
	secretKey string
}

// NewRequestBuilder validates cfg and returns a builder bound to it.
func NewRequestBuilder(cfg Config) (*RequestBuilder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RequestBuilder{
		baseURL:   cfg.baseURL(),
		accountID: cfg.AccountID(),
		secretKey: cfg.Secret(),
	}, nil
}

// AccountID returns the account segment used in every URL.
func (b *RequestBuilder) AccountID() string { return b.accountID }

// BaseURL returns the base URL requests are built against.
func (b *RequestBuilder) BaseURL() string { return b.baseURL }

func (b *RequestBuilder) newRequest(method, resource, body string) (*Request, error) {
	u, err := BuildURL(b.baseURL, b.accountID, resource)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set(headerContentType, contentTypeJSON)
	if b.secretKey != "" {
		header.Set(headerSecretKey, b.secretKey)
	}
	return &Request{method: method, url: u, header: header, body: body}, nil
}

func userResource(username string) string {
	return usersResource + "/" + url.PathEscape(username)
}

func channelResource(name string) string {
	return channelsResource + "/" + url.PathEscape(name)
}

// OnlineUserCountRequest builds GET users.
func (b *RequestBuilder) OnlineUserCountRequest() (*Request, error) {
	return b.newRequest(http.MethodGet, usersResource, "")
}

// IsUserOnlineRequest builds GET users/{username}.
func (b *RequestBuilder) IsUserOnlineRequest(username string) (*Request, error) {
	if username == "" {
		return nil, argumentError("username")
	}
	return b.newRequest(http.MethodGet, userResource(username), "")
}

// ForceUserSignOutRequest builds DELETE users/{username}.
func (b *RequestBuilder) ForceUserSignOutRequest(username string) (*Request, error) {
	if username == "" {
		return nil, argumentError("username")
	}
	return b.newRequest(http.MethodDelete, userResource(username), "")
}

// SendMessageToUserRequest builds POST users/{username} carrying the
// serialized message.
func (b *RequestBuilder) SendMessageToUserRequest(username, body string) (*Request, error) {
	if username == "" {
		return nil, argumentError("username")
	}
	if body == "" {
		return nil, argumentError("message")
	}
	return b.newRequest(http.MethodPost, userResource(username), body)
}

// UsersInChannelRequest builds GET channels/{name}.
func (b *RequestBuilder) UsersInChannelRequest(name string) (*Request, error) {
	if name == "" {
		return nil, argumentError("name")
	}
	return b.newRequest(http.MethodGet, channelResource(name), "")
}

// SendMessageToChannelRequest builds POST channels/{name} carrying the
// serialized message.
func (b *RequestBuilder) SendMessageToChannelRequest(name, body string) (*Request, error) {
	if name == "" {
		return nil, argumentError("name")
	}
	if body == "" {
		return nil, argumentError("message")
	}
	return b.newRequest(http.MethodPost, channelResource(name), body)
}
