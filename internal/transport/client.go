// Package transport provides the HTTP client used to talk to the service
// registry.
package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/servicesync/pkg/constants"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/logging"
)

// Client provides HTTP client functionality with authentication.
type Client struct {
	http       *http.Client
	auth       Authenticator
	credential string
	baseURL    string
	registry   string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithAuth sets the authenticator and the credential it applies.
func WithAuth(auth Authenticator, credential string) Option {
	return func(c *Client) {
		c.auth = auth
		c.credential = credential
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the registry at baseURL.
func New(registry, baseURL string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:     &NoAuth{},
		baseURL:  strings.TrimRight(baseURL, "/"),
		registry: registry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the registry base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Registry returns the registry name used in errors.
func (c *Client) Registry() string { return c.registry }

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.credential != "" {
		c.auth.Apply(req, c.credential)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.http.Do(req)
}

// Get performs a GET request against a path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}

	start := time.Now()
	resp, err := c.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(c.registry, path, err)
	}
	logging.FromContext(ctx).Debug().
		Str("registry", c.registry).
		Str("endpoint", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Registry request")
	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, path string, target any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	return DecodeResponse(ctx, resp, c.registry, path, target)
}
