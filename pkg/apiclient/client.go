// Package apiclient is the console's adapter to the core-banking REST API. It
// attaches the base URL, tenant header and credentials to every request,
// encodes/decodes JSON bodies and turns error responses into *Error values
// carrying the backend's user-facing message.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// TenantHeader is the header the backend uses to route requests to a tenant.
const TenantHeader = "Fineract-Platform-TenantId"

// DefaultTimeout bounds each request when no *http.Client is supplied.
const DefaultTimeout = 30 * time.Second

var errBaseURLMissing = errors.New("apiclient: base url is required")

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs JSON requests against the backend.
type Client struct {
	baseURL  *url.URL
	tenant   string
	username string
	password string
	http     Doer
	headers  map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithTenant sets the tenant identifier sent in TenantHeader.
func WithTenant(tenant string) Option {
	return func(c *Client) {
		c.tenant = strings.TrimSpace(tenant)
	}
}

// WithBasicAuth attaches HTTP basic credentials to every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient overrides the transport used for requests.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithHeader adds a static header to every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[name] = value
	}
}

// New constructs a Client for baseURL (for example
// "https://host/fineract-provider/api/v1").
func New(baseURL string, options ...Option) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, errBaseURLMissing
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q must be absolute", raw)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// BaseURL returns a copy of the configured base URL.
func (c *Client) BaseURL() *url.URL {
	clone := *c.baseURL
	return &clone
}

// Tenant reports the configured tenant identifier.
func (c *Client) Tenant() string { return c.tenant }

// Get issues a GET and decodes the response into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs a request. path may carry a query string. Non-2xx responses
// return *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c == nil {
		return errors.New("apiclient: client is nil")
	}
	if ctx == nil {
		return errors.New("apiclient: context is required")
	}

	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tenant != "" {
		req.Header.Set(TenantHeader, c.tenant)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	for name, value := range c.headers {
		req.Header.Set(name, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apiclient: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("apiclient: path is required")
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("apiclient: parse path %q: %w", path, err)
	}
	if ref.IsAbs() {
		return "", fmt.Errorf("apiclient: path %q must be relative to the base url", path)
	}

	target := c.BaseURL()
	target.Path = target.Path + "/" + strings.TrimLeft(ref.Path, "/")
	target.RawQuery = ref.RawQuery
	return target.String(), nil
}
