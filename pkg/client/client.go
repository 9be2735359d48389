// Package client is a typed Go client for the PDF Studio HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 30 * time.Second

// RequestHook runs before a request is sent. It is the injection point
// for auth headers or tracing.
type RequestHook func(req *http.Request)

// ResponseHook runs after a response is received, before decoding.
type ResponseHook func(resp *http.Response, elapsed time.Duration)

// Client talks to one PDF Studio server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	requestHook  RequestHook
	responseHook ResponseHook
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRequestHook installs a hook that runs before every request.
func WithRequestHook(h RequestHook) Option {
	return func(c *Client) { c.requestHook = h }
}

// WithResponseHook installs a hook that runs after every response.
func WithResponseHook(h ResponseHook) Option {
	return func(c *Client) { c.responseHook = h }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL, e.g.
// "http://localhost:8090".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    trimTrailingSlash(baseURL),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// doJSON issues a request with an optional JSON body and decodes a
// JSON response into out (which may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return newDispatchError(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return newDispatchError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return newServerError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newDispatchError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func decodeJSON(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return newDispatchError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func marshalBody(body any) (string, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return "", newDispatchError(fmt.Errorf("encode request: %w", err))
	}
	return string(buf), nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.requestHook != nil {
		c.requestHook(req)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(err)
	}
	if c.responseHook != nil {
		c.responseHook(resp, time.Since(start))
	}
	return resp, nil
}
