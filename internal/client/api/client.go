package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/calistrack/calistrack/internal/client/repositories/kvstore"
	"github.com/calistrack/calistrack/internal/logging"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxErrorBody    = 1 << 20
)

// TokenSource yields the access token to attach to outgoing requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// CacheTokens reads the token from the key-value cache on every request, so
// a login or logout is visible to the next call without extra wiring.
type CacheTokens struct {
	Cache kvstore.Repository
}

func (c CacheTokens) AccessToken(ctx context.Context) (string, error) {
	token, _, err := c.Cache.Get(ctx, kvstore.KeyToken)
	return token, err
}

type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
	log        logging.Logger

	mu          sync.RWMutex
	authExpired func()
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		timeout: DefaultTimeout,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	hc := http.Client{}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	hc.Timeout = c.timeout
	c.httpClient = &hc
	return c
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnAuthExpired registers the callback fired when a request is rejected
// with 401 or 403. Only one callback is kept; nil removes it.
func (c *Client) OnAuthExpired(fn func()) {
	c.mu.Lock()
	c.authExpired = fn
	c.mu.Unlock()
}

type skipAuthExpiredKey struct{}

// SkipAuthExpired marks ctx so that an auth failure on this request does not
// fire the auth-expired callback. Used by login, where 403 means bad
// credentials.
func SkipAuthExpired(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthExpiredKey{}, true)
}

// IsSkipAuthExpired reports whether ctx carries the SkipAuthExpired mark.
func IsSkipAuthExpired(ctx context.Context) bool {
	v, _ := ctx.Value(skipAuthExpiredKey{}).(bool)
	return v
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPatch, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodDelete, path, in, out)
}

// Do sends one request. in is JSON-encoded when non-nil. out may be nil, a
// *string for a raw text body, or any JSON target.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	reqID := req.Header.Get(RequestIDHeader)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return c.mapTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug(ctx, "request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		herr := newHTTPError(resp.StatusCode, body)
		if isAuthFailure(resp.StatusCode) && !IsSkipAuthExpired(ctx) {
			c.fireAuthExpired()
		}
		return herr
	}

	return decodeBody(resp.Body, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("read access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) fireAuthExpired() {
	c.mu.RLock()
	fn := c.authExpired
	c.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

func (c *Client) mapTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func decodeBody(r io.Reader, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, r)
		return nil
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if s, ok := out.(*string); ok {
		*s = string(b)
		return nil
	}

	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
