// Package truthapi is the HTTP client for a truth network server. It owns
// endpoint paths, request signing glue, and the mapping from HTTP failures
// to the client error taxonomy: requests that never reach the server are
// transport errors, non-2xx responses are server errors carrying status and
// message, and missing local credentials are precondition errors raised
// before any connection is attempted.
package truthapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veritasnet/veritas-cli/pkg/credstore"
	"github.com/veritasnet/veritas-cli/pkg/errs"
)

// UserAgent identifies this client to the server.
const UserAgent = "veritas-cli/1.0"

// DefaultTimeout bounds each request unless the caller tunes HTTPClient.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client for one truth network server. The zero value is
// not usable; construct with NewClient.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a client for baseURL. An empty baseURL selects the
// default network endpoint. token may be empty for unauthenticated use.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = credstore.DefaultServerURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// serverError is the error envelope the server uses for non-2xx responses.
// Some endpoints say "error", some "message"; accept both.
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends one request and decodes a 2xx response body into out (skipped
// when out is nil). Failures come back classified: transport errors for
// requests that produced no response, server errors otherwise.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return errs.Transport(err, "building %s %s", method, path)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger().DebugContext(ctx, "request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return errs.Transport(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Transport(err, "reading response for %s %s", method, path)
	}

	c.logger().DebugContext(ctx, "request complete",
		"method", method, "path", path, "request_id", requestID,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.Server(resp.StatusCode, serverMessage(resp.StatusCode, respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errs.Server(resp.StatusCode, fmt.Sprintf("malformed response body: %v", err))
	}
	return nil
}

// serverMessage extracts a human-readable message from an error response.
func serverMessage(status int, body []byte) string {
	var envelope serverError
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && len(trimmed) <= 200 {
		return trimmed
	}
	return http.StatusText(status)
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
