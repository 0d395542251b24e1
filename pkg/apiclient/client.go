package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/finconsole/notifykit/pkg/notification"
)

// TokenFunc supplies the bearer token attached to every request. Token
// acquisition and refresh are owned by the application shell, not by this
// client.
type TokenFunc func() string

// Client is the reduced REST binding for the platform's notification
// endpoints. It covers exactly the calls the subsystem makes: list for
// resync, and the read/unread/delete mutations issued optimistically.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
	maxRetries uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken sets the bearer token supplier.
func WithToken(fn TokenFunc) Option {
	return func(c *Client) {
		c.token = fn
	}
}

// WithMaxRetries bounds the retry attempts for List.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// New creates a client for the given API base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("apiclient: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type listResponse struct {
	Notifications []notification.Notification `json:"notifications"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

// List fetches the full notification list for the authenticated session.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; 4xx responses fail immediately.
func (c *Client) List(ctx context.Context) ([]notification.Notification, error) {
	var out listResponse

	operation := func() error {
		err := c.do(ctx, http.MethodGet, "/api/v1/notifications", nil, &out)
		if err == nil {
			return nil
		}
		var statusErr *StatusError
		if asStatusError(err, &statusErr) && statusErr.Code < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// MarkRead marks the given notifications as read on the server.
func (c *Client) MarkRead(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/api/v1/notifications/read", idsRequest{IDs: ids}, nil)
}

// MarkUnread reverts the given notifications to unread on the server.
func (c *Client) MarkUnread(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/api/v1/notifications/unread", idsRequest{IDs: ids}, nil)
}

// MarkAllRead marks every notification as read on the server.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/notifications/read-all", nil, nil)
}

// Delete removes the given notifications on the server.
func (c *Client) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/api/v1/notifications/delete", idsRequest{IDs: ids}, nil)
}

// ClearRead removes all read notifications on the server.
func (c *Client) ClearRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/notifications/clear-read", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Read a little of the body for diagnostics; the API returns short
		// JSON error envelopes.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(snippet)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("apiclient: decode response: %w", err)
		}
	}
	return nil
}
