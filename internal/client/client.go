package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/tuannvm/bookshelf/internal/logger"
)

// Default headers
const (
	userAgent        = "bookshelf/1.0 (+https://github.com/tuannvm/bookshelf)"
	acceptHeader     = "application/json, application/yaml;q=0.9, text/yaml;q=0.9, */*;q=0.5"
	acceptLangHeader = "en-US,en;q=0.5"

	// maxBodySize caps a catalog document.
	maxBodySize = 16 << 20
)

// Client fetches catalog documents with retry and rate limiting.
type Client struct {
	baseURL     string
	client      *http.Client
	headers     map[string]string
	rateLimiter *rate.Limiter
	retryPolicy *RetryPolicy
	logger      *logger.Logger
}

// StatusError is returned for any response that is not 200 OK.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// SetDefaultHeader sets a default header that will be included in all requests
func (c *Client) SetDefaultHeader(key, value string) {
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	c.headers[key] = value
}

// RetryPolicy defines the retry behavior for failed requests
type RetryPolicy struct {
	// MaxRetries is the maximum number of retries
	MaxRetries int
	// RetryableStatusCodes is a list of status codes that should be retried
	RetryableStatusCodes []int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
}

// ShouldRetry checks if a status code should be retried
func (r *RetryPolicy) ShouldRetry(statusCode int) bool {
	for _, code := range r.RetryableStatusCodes {
		if statusCode == code {
			return true
		}
	}
	return false
}

// CalculateBackoff returns a jittered exponential delay for the given attempt,
// capped at MaxBackoff.
func (r *RetryPolicy) CalculateBackoff(attempt int) time.Duration {
	initial := r.InitialBackoff
	if initial == 0 {
		initial = 100 * time.Millisecond
	}
	maxBackoff := r.MaxBackoff
	if maxBackoff == 0 {
		maxBackoff = 5 * time.Second
	}

	backoff := float64(initial) * math.Pow(2, float64(attempt))
	jitter := 0.5 + rand.Float64()
	delay := time.Duration(backoff * jitter)

	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

// DefaultRetryPolicy returns a sensible default retry policy
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:           3,
		RetryableStatusCodes: []int{500, 502, 503, 504},
		InitialBackoff:       100 * time.Millisecond,
		MaxBackoff:           5 * time.Second,
	}
}

// New creates a client with a cookie jar and a 60 second timeout.
func New(opts ...Option) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	transport := &http.Transport{
		TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12},
		ForceAttemptHTTP2: true,
		MaxIdleConns:      10,
		IdleConnTimeout:   30 * time.Second,
	}

	httpClient := &http.Client{
		Jar:       jar,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Preserve headers during redirects
			if len(via) > 0 {
				req.Header = via[0].Header.Clone()
			}
			return nil
		},
		Timeout: 60 * time.Second,
	}

	return NewWithHTTPClient(httpClient, opts...)
}

// NewWithHTTPClient creates a new client with a custom HTTP client
func NewWithHTTPClient(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		client:      httpClient,
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
		retryPolicy: DefaultRetryPolicy(),
		headers:     make(map[string]string),
	}

	c.SetDefaultHeader("User-Agent", userAgent)
	c.SetDefaultHeader("Accept", acceptHeader)
	c.SetDefaultHeader("Accept-Language", acceptLangHeader)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option configures the Client
type Option func(*Client)

// WithBaseURL resolves relative request paths against base.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithRateLimit sets a custom rate limit
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.rateLimiter = rate.NewLimiter(limit, burst)
	}
}

// WithRetryPolicy sets the retry policy for the client
func WithRetryPolicy(policy *RetryPolicy) Option {
	return func(c *Client) {
		c.retryPolicy = policy
	}
}

// WithLogger reports retries to log.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

// WithHeader adds a default header.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.SetDefaultHeader(key, value)
	}
}

func (c *Client) resolve(rawURL string) string {
	if c.baseURL == "" || strings.Contains(rawURL, "://") {
		return rawURL
	}
	return c.baseURL + "/" + strings.TrimLeft(rawURL, "/")
}

// do performs the HTTP request with retry and rate limiting
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.rateLimiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	var (
		resp *http.Response
		err  error
	)

	for attempt := 0; attempt <= c.retryPolicy.MaxRetries; attempt++ {
		resp, err = c.client.Do(req)

		if err == nil && !c.retryPolicy.ShouldRetry(resp.StatusCode) {
			return resp, nil
		}
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}

		if attempt < c.retryPolicy.MaxRetries {
			status := 0
			if resp != nil {
				status = resp.StatusCode
				// Drain so the connection can be reused.
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}

			backoff := c.retryPolicy.CalculateBackoff(attempt)
			c.logger.WithFields(map[string]any{
				"url":     req.URL.String(),
				"attempt": attempt + 1,
				"status":  status,
				"backoff": backoff.String(),
			}).Warn("catalog request failed, retrying")

			select {
			case <-time.After(backoff):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryPolicy.MaxRetries+1, err)
	}

	return resp, nil
}

// Get downloads rawURL and returns the body and its content type.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	target := c.resolve(rawURL)
	if _, err := url.Parse(target); err != nil {
		return nil, "", fmt.Errorf("invalid url %q: %w", target, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("read response body: %w", err)
	}

	c.logger.WithFields(map[string]any{"url": target, "bytes": len(body)}).Debug("catalog fetched")
	return body, resp.Header.Get("Content-Type"), nil
}
