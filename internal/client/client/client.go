package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client issues requests against the identity service.
type Client interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Ping(ctx context.Context) error
	Close() error
}

// TokenSource supplies the bearer token for authenticated requests. An empty
// token means no Authorization header is added.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Request describes one call. Path is joined onto the client's base URL.
// Body, when non-nil, is sent as JSON. A caller-supplied Authorization header
// is never replaced; Anonymous suppresses bearer injection altogether.
type Request struct {
	Method    string
	Path      string
	Body      any
	Header    http.Header
	Anonymous bool
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
