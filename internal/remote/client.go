// Package remote is the HTTP client for the platform API. Every endpoint
// answers with a models.Envelope.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/khrees2412/hirepipe/pkg/models"
)

// Client calls the platform API under a base URL such as http://localhost:8080/api
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

// Option configures a Client
type Option func(*Client)

// WithToken sets the source of the bearer token sent with each request
func WithToken(token func() string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		token:      func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request and decodes the envelope. A non-2xx answer that still
// carries an envelope is returned as that envelope; anything else is an error.
func do[T any](ctx context.Context, c *Client, method, path string, body interface{}) (models.Envelope[T], error) {
	var env models.Envelope[T]

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return env, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return env, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, err
	}

	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return env, fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		return env, fmt.Errorf("%s %s: invalid response: %w", method, path, err)
	}
	if resp.StatusCode >= 300 && env.Success {
		return env, fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	return env, nil
}
