package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/growthpods/growthpods/internal/common"
	"github.com/growthpods/growthpods/internal/logging"
)

const maxResponseBytes = 1 << 20

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout bounds every request. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient builds a client for baseURL. tokens may be nil, in which case
// no bearer token is ever injected.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) Do(ctx context.Context, r *Request) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL.JoinPath(r.Path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := c.injectBearer(ctx, r, req); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.debug(ctx, "request failed", "method", r.Method, "path", r.Path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	c.debug(ctx, "request done", "method", r.Method, "path", r.Path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *HTTPClient) injectBearer(ctx context.Context, r *Request, req *http.Request) error {
	if r.Anonymous || c.tokens == nil || req.Header.Get(common.AuthorizationHeader) != "" {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.SchemeBearer+" "+token)
	}
	return nil
}

// Ping checks that the identity service answers GET /ping with status OK.
func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.Do(ctx, &Request{Method: http.MethodGet, Path: common.PathPing, Anonymous: true})
	if err != nil {
		return err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := resp.Decode(&body); err != nil {
		return err
	}
	if body.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) debug(ctx context.Context, msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(ctx, msg, args...)
	}
}

// errorMessage pulls {"error": "..."} or {"message": "..."} out of a body,
// falling back to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return string(bytes.TrimSpace(body))
}
