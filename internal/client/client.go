// Package client provides the authenticated HTTP client for the campus
// administration backend. It attaches the current bearer token, resolves
// paths against the configured base address, and maps failures onto the
// client error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/campusadmin/campusctl/internal/config"
)

// TokenSource produces the current bearer token. An empty string means
// no session; the request is sent without an Authorization header and
// the backend decides.
type TokenSource func() string

// Observer receives the outcome of every dispatched request.
type Observer interface {
	Observe(method, path string, status int, d time.Duration)
}

// Client is the HTTP client shared by all resource stores.
type Client struct {
	httpClient *http.Client
	baseURL    string
	basePath   string
	tokens     TokenSource
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource injects the session's token capability.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithObserver attaches a request observer (metrics).
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client from backend configuration.
func New(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		basePath:   cfg.BasePath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request is an HTTP request to be executed.
type Request struct {
	Method      string
	Path        string
	QueryParams map[string]string
	Body        any
}

// Response is a completed HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// OK reports whether the response status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns nil for a 2xx response and a RequestError otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return newRequestError(r.StatusCode, r.Body)
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// Do executes a request. A nil error means a response was received; the
// caller inspects Response.Err for backend-reported failures. A
// NetworkError means no response arrived at all.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u, err := c.buildURL(req.Path, req.QueryParams)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		c.observe(req.Method, req.Path, 0, duration)
		return nil, &NetworkError{Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.observe(req.Method, req.Path, httpResp.StatusCode, duration)
		return nil, &NetworkError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	c.observe(req.Method, req.Path, httpResp.StatusCode, duration)
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		Duration:   duration,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, queryParams map[string]string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, QueryParams: queryParams})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// BaseURL returns the resolved backend base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) buildURL(path string, queryParams map[string]string) (*url.URL, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if c.basePath != "" && !strings.HasPrefix(path, c.basePath+"/") && path != c.basePath {
		path = c.basePath + path
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	if len(queryParams) > 0 {
		q := u.Query()
		for k, v := range queryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	return u, nil
}

func (c *Client) observe(method, path string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.Observe(method, path, status, d)
	}
}
