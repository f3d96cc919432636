// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package eventapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/artpass/internal/cache"
	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/metrics"
)

const (
	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 8 << 20

	// maxErrorBodySize bounds the body excerpt kept on a StatusError.
	maxErrorBodySize = 512
)

// Client talks to the remote event API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]

	cache    cache.Store
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache caches venue and event detail bodies in store for ttl.
// A nil store disables caching.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// New creates a Client from configuration.
func New(cfg config.EventAPIConfig, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
	if cfg.BreakerEnabled {
		c.breaker = newBreaker(cfg)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the upstream base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// BreakerState reports the circuit breaker state, or "disabled".
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return stateToString(c.breaker.State())
}

// request describes one upstream call.
type request struct {
	method   string
	endpoint string // metrics label
	path     string
	query    url.Values
	cacheKey string
}

// do performs a single attempt and returns the cleaned body.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	if req.cacheKey != "" && c.cache != nil {
		if body, ok := c.cache.Get(req.cacheKey); ok {
			metrics.RecordCacheLookup(c.cache.Name(), true)
			return body, nil
		}
		metrics.RecordCacheLookup(c.cache.Name(), false)
	}

	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordUpstream(req.endpoint, outcomeOf(ctx, err), time.Since(start))
		return nil, fmt.Errorf("%s: rate limiter: %w", req.endpoint, contextErr(ctx, err))
	}
	metrics.UpstreamRateLimitWait.Observe(time.Since(start).Seconds())

	send := func() ([]byte, error) { return c.send(ctx, req) }

	started := time.Now()
	var body []byte
	var err error
	if c.breaker != nil {
		body, err = c.breaker.Execute(send)
		recordBreaker(err)
	} else {
		body, err = send()
	}
	metrics.RecordUpstream(req.endpoint, outcomeOf(ctx, err), time.Since(started))

	if err != nil {
		if !IsCanceled(err) && !IsNotFound(err) {
			logging.Warn().Err(err).Str("endpoint", req.endpoint).Str("path", req.path).Msg("event API request failed")
		}
		return nil, err
	}
	return body, nil
}

// send issues the HTTP request. It runs inside the breaker.
func (c *Client) send(ctx context.Context, req request) ([]byte, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", req.endpoint, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.endpoint, contextErr(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &StatusError{
			Endpoint:   req.endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", req.endpoint, contextErr(ctx, err))
	}
	return Clean(raw), nil
}

// store remembers a body that decoded successfully.
func (c *Client) store(req request, body []byte) {
	if req.cacheKey != "" && c.cache != nil {
		c.cache.Set(req.cacheKey, body, c.cacheTTL)
	}
}

// Clean trims whitespace and strips trailing '%' characters.
func Clean(body []byte) []byte {
	body = bytes.TrimSpace(body)
	body = bytes.TrimRight(body, "%")
	return bytes.TrimSpace(body)
}

// decode unmarshals a cleaned body into v.
func decode(endpoint string, body []byte, v any) error {
	if len(body) == 0 {
		return fmt.Errorf("%s: empty body: %w", endpoint, ErrMalformedResponse)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: %w: %v", endpoint, ErrMalformedResponse, err)
	}
	return nil
}

// contextErr prefers the context's own error so cancellation is recognisable.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func outcomeOf(ctx context.Context, err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled:
		return "canceled"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	case errors.As(err, &se):
		if se.StatusCode == http.StatusNotFound {
			return "not_found"
		}
		return "http_error"
	default:
		return "transport_error"
	}
}

func recordBreaker(err error) {
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
	}
}
