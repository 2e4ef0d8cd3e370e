// Package api implements the gateway client every network call in the app
// routes through. It owns the three cross-cutting policies of the HTTP
// boundary: attaching the bearer token, logging every request/response pair,
// and treating any 401 as fatal to the whole session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quisipp/onboard/internal/logging"
)

// DefaultTimeout is the single fixed timeout applied to every request.
const DefaultTimeout = 15 * time.Second

// Envelope is the backend's uniform response body.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Decode unmarshals the envelope's data payload into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// TokenSource yields the current bearer token, or "" when unauthenticated.
// Errors from the source are logged and treated as "no token".
type TokenSource func(ctx context.Context) (string, error)

// InvalidateFunc is called once per 401 response, before the error is
// returned to the caller. It must clear the persisted session.
type InvalidateFunc func(ctx context.Context)

// Client is the shared gateway client.
type Client struct {
	base           string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized InvalidateFunc
	log            logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource sets the bearer token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHook sets the session-invalidation hook fired on any 401.
func WithUnauthorizedHook(fn InvalidateFunc) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithTimeout overrides the fixed request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a gateway client rooted at baseURL.
func New(baseURL string, log logging.Logger, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: DefaultTimeout},
		log:  log.With("component", "api"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

// PostJSON issues a POST with a JSON body. A nil body sends no payload.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.json(ctx, http.MethodPost, path, body)
}

// PutJSON issues a PUT with a JSON body. A nil body sends no payload.
func (c *Client) PutJSON(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.json(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, "", nil)
}

func (c *Client) json(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, "application/json", r)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.send(req)
}

// send runs the request through the interceptor pipeline: token attach,
// request/response logging, envelope decode, 401 policy, error
// normalization.
func (c *Client) send(req *http.Request) (*Envelope, error) {
	ctx := req.Context()
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	if c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			c.log.Warn(ctx, "token source failed, sending unauthenticated", "error", err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.log.Info(ctx, "api request", "id", reqID, "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(ctx, "api transport error", "id", reqID, "error", err)
		return nil, &Error{Message: err.Error(), err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: err.Error(), err: err}
	}

	var env Envelope
	if len(raw) > 0 {
		// Tolerate non-envelope bodies on errors; the status drives
		// handling either way.
		_ = json.Unmarshal(raw, &env)
	}

	c.log.Info(ctx, "api response", "id", reqID, "status", resp.StatusCode, "success", env.Success)

	if resp.StatusCode == http.StatusUnauthorized {
		// Any authentication failure invalidates the whole session,
		// regardless of which operation triggered it.
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, &Error{Status: resp.StatusCode, Message: messageOr(env.Message, "unauthorized"), err: ErrUnauthorized}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var sentinel error
		if resp.StatusCode == http.StatusNotFound {
			sentinel = ErrNotFound
		}
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: messageOr(env.Message, http.StatusText(resp.StatusCode)),
			err:     sentinel,
		}
	}

	if !env.Success {
		return &env, &Error{Status: resp.StatusCode, Message: messageOr(env.Message, "request declined"), Soft: true}
	}

	return &env, nil
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
