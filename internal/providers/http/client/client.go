package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/tracing"
)

// DefaultUserAgent is sent on every outbound request.
const DefaultUserAgent = "ChatRelay-HTTP/1.0"

// Options configures a Client. Zero values mean: no timeout, unlimited
// rate, no breaker.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	RateLimit float64
	Breaker   *resilience.Breaker
}

// Client wraps resty with rate limiting and an optional circuit breaker
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Breaker *resilience.Breaker
}

// NewClient creates an HTTP client on a pooled transport. Requests are
// never retried.
func NewClient(opts Options) *Client {
	// Only the pooled transport is borrowed; its retry loop is bypassed
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	restyClient := resty.New()
	restyClient.
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent)

	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		Resty:   restyClient,
		Limiter: limiter,
		Breaker: opts.Breaker,
	}
}

// Request creates a request bound to ctx, carrying its trace headers
func (c *Client) Request(ctx context.Context) (*resty.Request, error) {
	if c.Breaker != nil && c.Breaker.State() == resilience.StateOpen {
		return nil, resilience.ErrCircuitOpen
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	req := c.Resty.R().SetContext(ctx)
	tracing.Inject(ctx, req.Header)
	return req, nil
}

// ExecuteWithBreaker runs fn through the breaker, if one is configured
func (c *Client) ExecuteWithBreaker(fn func() (*resty.Response, error)) (*resty.Response, error) {
	return resilience.Execute(c.Breaker, fn)
}

// BreakerState returns the breaker state, closed when there is none
func (c *Client) BreakerState() resilience.State {
	if c.Breaker == nil {
		return resilience.StateClosed
	}
	return c.Breaker.State()
}
