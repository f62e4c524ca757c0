package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client. Mirror requests and tests build on it.
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOption configures an [HTTPClient].
type HTTPClientOption func(*resty.Client)

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(userAgent string) HTTPClientOption {
	return func(c *resty.Client) {
		if userAgent != "" {
			c.SetHeader("User-Agent", userAgent)
		}
	}
}

// WithProxy routes every request through proxy.
func WithProxy(proxy string) HTTPClientOption {
	return func(c *resty.Client) {
		if proxy != "" {
			c.SetProxy(proxy)
		}
	}
}

// WithoutRedirects makes 3xx answers reach the caller unfollowed.
func WithoutRedirects() HTTPClientOption {
	return func(c *resty.Client) {
		c.SetRedirectPolicy(resty.NoRedirectPolicy())
	}
}

// NewHTTPClient returns an independent client with its own connection pool.
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	c := resty.New()
	for _, opt := range opts {
		opt(c)
	}
	return &HTTPClient{Client: c}
}
