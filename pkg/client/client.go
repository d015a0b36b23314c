// Package client is the Go SDK for the content-studio admin API. It
// implements the dashboard's save-draft/publish lifecycle, pre-flight
// validation, due-date normalization, and the published-list view with
// optimistic deletes.
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

const (
	challengesPath = "/api/admin/challenges"
	quizzesPath    = "/api/admin/quizzes"
)

// Client is a Go SDK for the content-studio admin API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAPIKey sets the admin token sent with every request
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// NewClient creates a new content-studio client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SubmitResult is the uniform outcome of a save-draft or publish call.
// Submit methods never return an error: validation failures, transport
// failures, and server rejections all land in Message with Success false.
type SubmitResult struct {
	Success bool
	Message string
	Data    map[string]interface{}
}

// RecordID extracts the saved record's id from the response body,
// checking the data envelope first and the top level second
func (r SubmitResult) RecordID() string {
	if r.Data == nil {
		return ""
	}
	if data, ok := r.Data["data"].(map[string]interface{}); ok {
		if id, ok := data["id"].(string); ok {
			return id
		}
	}
	if id, ok := r.Data["id"].(string); ok {
		return id
	}
	return ""
}

// submit performs one POST and classifies the outcome. failPrefix is the
// action-specific wrapper, e.g. "Failed to publish quiz".
func (c *Client) submit(ctx context.Context, path string, payload interface{}, failPrefix string) SubmitResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{Message: failPrefix + ": Network error"}
	}

	status, respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return SubmitResult{Message: failPrefix + ": Network error"}
	}

	if status < 200 || status >= 300 {
		apiErr := classifyErrorBody(status, respBody)
		return SubmitResult{Message: failPrefix + ": " + apiErr.Message()}
	}

	// A 2xx with an unparseable body still counts as success.
	var data map[string]interface{}
	if err := json.Unmarshal(respBody, &data); err != nil || data == nil {
		data = map[string]interface{}{}
	}

	return SubmitResult{Success: true, Data: data}
}

// do performs an HTTP request and returns the raw status and body. A
// non-nil error means the request never completed (transport failure).
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
