package beacon

import "net/http"

const (
	headerContentType = "Content-Type"
	headerSecretKey   = "X-Beacon-Secret-Key"
	contentTypeJSON   = "application/json"
)

// Request is a fully specified outbound call. It is built once per operation
// by a RequestBuilder and is not modified afterwards.
type Request struct {
	method string
	url    string
	header http.Header
	body   string
}

// NewRequest creates a request from its parts. The header is copied.
func NewRequest(method, url string, header http.Header, body string) *Request {
	return &Request{
		method: method,
		url:    url,
		header: header.Clone(),
		body:   body,
	}
}

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// URL returns the absolute request URL.
func (r *Request) URL() string { return r.url }

// Body returns the request body, empty when the request has none.
func (r *Request) Body() string { return r.body }

// Header returns a copy of the request headers.
func (r *Request) Header() http.Header {
	if r.header == nil {
		return http.Header{}
	}
	return r.header.Clone()
}

// Response is the raw outcome of one round trip.
type Response struct {
	StatusCode int
	Body       string
}
