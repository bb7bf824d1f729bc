// Package ai implements the judgment and text-resolution capabilities
// on top of the OpenAI chat completion API.
package ai

import (
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Client wraps the OpenAI API for both capabilities the filtering core
// consumes. Calls are rate limited so a burst of filter requests
// cannot exhaust the provider quota.
type Client struct {
	api     *openai.Client
	model   string
	baseURL string
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at an alternate API endpoint. Tests
// use this to target an httptest server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		// applied in NewClient before the API client is constructed
		c.baseURL = url
	}
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a client for the given API key and model.
func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	c.api = openai.NewClientWithConfig(cfg)
	return c
}
