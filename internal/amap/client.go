// Package amap is the HTTP client for the Amap (Gaode) Web Service API:
// place search, geocoding, route planning, distance and weather lookups,
// with responses flattened into compact records for model consumption.
//
// Error policy: transport failures, non-2xx statuses, and abnormal API status
// codes return errors; missing or malformed fields inside an otherwise
// well-formed response are dropped from the flattened record instead of
// failing the lookup.
package amap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://restapi.amap.com"

// ErrMissingKey indicates no Amap API key was configured.
var ErrMissingKey = fmt.Errorf("amap API key is not configured (set AMAP_API_KEY)")

// Client calls the Amap Web Service API.
type Client struct {
	key        string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an Amap client with the given API key.
func NewClient(key string, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	c := &Client{
		key:        key,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// get issues a GET request against path with the given query parameters and
// decodes the JSON response into v. The API key and output format are always
// attached.
func (c *Client) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	query.Set("key", c.key)
	query.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("amap request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("amap request %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("amap response %s: %w", path, err)
	}
	return nil
}

// apiStatus is the envelope every v3/v5 response carries.
type apiStatus struct {
	Status   string `json:"status"`
	Info     string `json:"info"`
	Infocode string `json:"infocode"`
}

// check validates the API-level status fields.
func (s apiStatus) check() error {
	if s.Status != "1" || s.Infocode != "10000" {
		return fmt.Errorf("amap API status abnormal: status=%s info=%s infocode=%s", s.Status, s.Info, s.Infocode)
	}
	return nil
}
