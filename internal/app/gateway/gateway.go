/*
Package gateway implements the uniform request/response wrapper over the
remote collection store.

Every call applies the default JSON header set and, when a session is active,
a bearer token. A per-request deadline (default 10s) distinguishes Timeout
from NetworkError, and idempotent failures (HTTP 5xx and 429) are retried with
exponential backoff starting at the configured base delay and doubling per
attempt. The gateway is stateless beyond its configuration; all caching
happens above it.
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"eventbook/internal/pkg/errs"
)

const (
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries bounds the number of retry attempts after the first.
	DefaultMaxRetries = 3

	// DefaultBackoff is the initial retry delay; it doubles on each attempt.
	DefaultBackoff = 1 * time.Second
)

// TokenSource supplies the bearer token attached to outgoing requests. An
// empty token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Config carries the gateway's settings. Zero values fall back to the
// package defaults; a negative MaxRetries disables retries entirely.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	HTTPClient *http.Client
	Tokens     TokenSource
}

// Client is the remote resource gateway.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries uint64
	backoff    time.Duration
	http       *http.Client
	tokens     TokenSource
}

// errorBody is the error envelope the store returns on non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// New constructs a gateway client from cfg, applying defaults for unset values.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		maxRetries: uint64(DefaultMaxRetries),
		backoff:    cfg.Backoff,
		http:       cfg.HTTPClient,
		tokens:     cfg.Tokens,
	}

	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if cfg.MaxRetries > 0 {
		c.maxRetries = uint64(cfg.MaxRetries)
	} else if cfg.MaxRetries < 0 {
		c.maxRetries = 0
	}
	if c.backoff <= 0 {
		c.backoff = DefaultBackoff
	}
	if c.http == nil {
		c.http = &http.Client{}
	}

	return c
}

// Do issues one logical request against the store, retrying retryable
// failures, and decodes the response body into out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errs.NewError(errs.ErrDecode)
		}
		payload = encoded
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.once(ctx, method, path, payload, out)
		if errs.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with the given JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with the given JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// once performs a single request attempt under the configured deadline and
// normalizes every failure into the gateway error taxonomy.
func (c *Client) once(ctx context.Context, method, path string, payload []byte, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reader)
	if err != nil {
		return errs.NewError(errs.ErrNetwork)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return errs.NewError(errs.ErrTimeout)
		}
		return errs.NewError(errs.ErrNetwork)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errs.NewError(errs.ErrNetwork)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var body errorBody
		// A non-JSON error body falls back to the generic message.
		_ = json.Unmarshal(raw, &body)
		return errs.NewHTTPError(res.StatusCode, body.Message)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errs.NewError(errs.ErrDecode)
	}

	return nil
}
