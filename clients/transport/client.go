package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Auth decorates an outgoing request with credentials.
type Auth func(req *http.Request)

// BasicAuth authenticates with an empty user name and the key as password,
// the scheme used by Affinity and Lemlist.
func BasicAuth(user, password string) Auth {
	return func(req *http.Request) {
		req.SetBasicAuth(user, password)
	}
}

// HeaderAuth sets a static header on every request.
func HeaderAuth(name, value string) Auth {
	return func(req *http.Request) {
		req.Header.Set(name, value)
	}
}

// Config configures a Client.
type Config struct {
	// Service names the remote API in logs and errors.
	Service string
	BaseURL string
	Auth    Auth
	Timeout time.Duration

	// Interval is the minimum spacing between requests. Zero disables pacing.
	Interval time.Duration

	// MaxAttempts bounds the attempts of a rate limited request, the first
	// one included. Values below 1 mean a single attempt.
	MaxAttempts int

	// RetryAfter is the wait used when a 429 carries no Retry-After header.
	RetryAfter time.Duration

	HTTPClient *http.Client
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client is a JSON API client with request pacing and retry on HTTP 429.
type Client struct {
	service string
	base    *url.URL
	auth    Auth
	http    *http.Client
	limiter *rate.Limiter
	retry   retrypolicy.RetryPolicy[*Response]
}

// New initializes a client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid %s base URL: %q", cfg.Service, cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Interval), 1)
	}

	wait := cfg.RetryAfter
	if wait <= 0 {
		wait = 5 * time.Second
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	service := cfg.Service

	policy := retrypolicy.Builder[*Response]().
		HandleIf(func(_ *Response, err error) bool {
			var rl *RateLimitError
			return errors.As(err, &rl)
		}).
		WithMaxAttempts(attempts).
		WithDelayFunc(func(exec failsafe.ExecutionAttempt[*Response]) time.Duration {
			var rl *RateLimitError
			if errors.As(exec.LastError(), &rl) && rl.RetryAfter > 0 {
				return rl.RetryAfter
			}
			return wait
		}).
		OnRetry(func(e failsafe.ExecutionEvent[*Response]) {
			log.Warn().
				Str("service", service).
				Int("attempt", e.Attempts()).
				Err(e.LastError()).
				Msg("rate limited, retrying")
		}).
		ReturnLastFailure().
		Build()

	return &Client{
		service: service,
		base:    base,
		auth:    cfg.Auth,
		http:    hc,
		limiter: limiter,
		retry:   policy,
	}, nil
}

// Do sends a request and reads the full response. The body, if not nil, is
// encoded as JSON. Rate limited requests are retried; any other non-2xx
// response is returned together with a *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (*Response, error) {
	var payload []byte

	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", c.service, err)
		}
	}

	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	resp, err := failsafe.NewExecutor[*Response](c.retry).
		WithContext(ctx).
		Get(func() (*Response, error) {
			return c.attempt(ctx, method, u.String(), path, payload)
		})

	var rl *RateLimitError
	if errors.As(err, &rl) {
		return resp, rl.StatusError
	}

	return resp, err
}

func (c *Client) attempt(ctx context.Context, method, target, path string, payload []byte) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.auth != nil {
		c.auth(req)
	}

	log.Debug().Str("service", c.service).Str("method", method).Str("path", path).Msg("request")

	hr, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s %s: %w", c.service, method, path, err)
	}
	defer hr.Body.Close()

	data, err := io.ReadAll(hr.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s %s: reading body: %w", c.service, method, path, err)
	}

	resp := &Response{
		StatusCode: hr.StatusCode,
		Header:     hr.Header,
		Body:       data,
	}

	if hr.StatusCode >= 200 && hr.StatusCode < 300 {
		return resp, nil
	}

	se := &StatusError{
		Service:    c.service,
		Method:     method,
		Path:       path,
		StatusCode: hr.StatusCode,
		Body:       string(data),
	}

	if hr.StatusCode == http.StatusTooManyRequests {
		return resp, &RateLimitError{
			StatusError: se,
			RetryAfter:  parseRetryAfter(hr.Header.Get("Retry-After")),
		}
	}

	return resp, se
}

// Get sends a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.decode(resp, out)
}

// Post sends a POST request and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	resp, err := c.Do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return c.decode(resp, out)
}

func (c *Client) decode(resp *Response, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", c.service, err)
	}

	return nil
}

// parseRetryAfter reads a Retry-After value in seconds.
func parseRetryAfter(v string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
