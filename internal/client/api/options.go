package api

import (
	"net/http"
	"time"

	"github.com/calistrack/calistrack/internal/logging"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

type Option func(*Client)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient sets the underlying client. The Client works on a copy
// whose Timeout is the configured request timeout; hc is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}
