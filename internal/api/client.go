package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/Asim1921/Jodi-frontend/pkg/errors"
)

// Transport abstracts the HTTP layer so the client can run over the retrying
// circuit-breaker transport in production and a plain httptest transport in
// tests. Do may retry; DoOnce never does and is used for mutations.
type Transport interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
	DoOnce(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for outgoing requests. The session
// storage implements it; an empty token means no Authorization header is
// attached.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// UnauthorizedHook is invoked synchronously, exactly once, when any response
// comes back with HTTP 401, before the error propagates to the caller. The
// session layer uses it to erase the persisted token and cached user.
type UnauthorizedHook func(ctx context.Context)

// Envelope is the uniform wrapper every remote API response uses.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
	Errors  []string        `json:"errors,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
}

// Meta is the pagination block of a list response.
type Meta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
}

// HasMore reports whether more pages exist after the current one.
func (m *Meta) HasMore() bool {
	if m == nil {
		return false
	}
	return m.CurrentPage < m.TotalPages
}

var upstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total number of requests to the remote API",
	},
	[]string{"method", "path", "status"},
)

// Client is the typed gateway to the remote Jodi's List API. The zero-auth
// base client is built once at startup; WithSession derives a cheap
// session-scoped copy carrying that browser session's token source and
// unauthorized hook.
type Client struct {
	baseURL        string
	transport      Transport
	logger         *slog.Logger
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
}

// New creates the base API client.
func New(baseURL string, transport Transport, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		transport: transport,
		logger:    logger,
	}
}

// WithSession returns a copy of the client bound to one browser session's
// token source and unauthorized hook. The underlying transport is shared.
func (c *Client) WithSession(tokens TokenSource, hook UnauthorizedHook) *Client {
	cpy := *c
	cpy.tokens = tokens
	cpy.onUnauthorized = hook
	return &cpy
}

// call executes one logical API operation. Mutating methods go through the
// single-attempt transport path; everything else may be retried. The decoded
// envelope data is unmarshalled into out when out is non-nil, and the meta
// block is returned for list operations.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any, out any) (*Meta, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Attach the bearer token when the session has one persisted. No token,
	// no header.
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	var resp *http.Response
	if method == http.MethodGet || method == http.MethodHead {
		resp, err = c.transport.Do(ctx, req)
	} else {
		resp, err = c.transport.DoOnce(ctx, req)
	}
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(method, path, "error").Inc()
		return nil, apperrors.Unavailable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	upstreamRequestsTotal.WithLabelValues(method, path, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var env Envelope
	// A malformed body on an error status is still an error; only fail
	// decoding for statuses we would otherwise have treated as success.
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		// Global interceptor: fire once, synchronously, before the rejection
		// propagates, regardless of which operation triggered it.
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		msg := env.Message
		if msg == "" {
			msg = "session expired, please sign in again"
		}
		return nil, apperrors.Unauthorized(msg)
	}

	if resp.StatusCode >= 400 || (decodeErr == nil && !env.Success) {
		return nil, apperrors.Upstream(resp.StatusCode, env.Message, env.Errors)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode response envelope: %w", decodeErr)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}

	return env.Meta, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (*Meta, error) {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	_, err := c.call(ctx, http.MethodPost, path, nil, body, out)
	return err
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	_, err := c.call(ctx, http.MethodPatch, path, nil, body, out)
	return err
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.call(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}
