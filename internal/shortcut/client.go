// Package shortcut provides a read-only client for the Shortcut REST API v3
// and helpers for extracting story references from commit messages.
package shortcut

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound is returned when a story or epic does not exist. Callers must
// distinguish it from transport failures with errors.Is; a missing record is
// recoverable, an unreachable tracker is not.
var ErrNotFound = errors.New("not found")

// Client talks to the Shortcut REST API v3.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBaseURL sets a custom base URL for the Shortcut API (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a Client authenticating with the given API token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.shortcut.com",
		token:      token,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetStory fetches a single story by its public id.
func (c *Client) GetStory(ctx context.Context, id int64) (*Story, error) {
	var story Story
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v3/stories/%d", id), &story); err != nil {
		return nil, fmt.Errorf("story %d: %w", id, err)
	}
	return &story, nil
}

// GetEpic fetches a single epic by its public id.
func (c *Client) GetEpic(ctx context.Context, id int64) (*Epic, error) {
	var epic Epic
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v3/epics/%d", id), &epic); err != nil {
		return nil, fmt.Errorf("epic %d: %w", id, err)
	}
	return &epic, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Shortcut-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parseAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// apiError represents an error response from the Shortcut API.
type apiError struct {
	Message string `json:"message"`
}

// parseAPIError maps a Shortcut API error response onto the error taxonomy:
// 404 becomes ErrNotFound, everything else is a transport-level failure.
func parseAPIError(statusCode int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		apiErr.Message = string(body)
	}

	switch statusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return fmt.Errorf("unauthorized: %s (check SHORTCUT_TOKEN)", apiErr.Message)
	default:
		return fmt.Errorf("API error (status %d): %s", statusCode, apiErr.Message)
	}
}
