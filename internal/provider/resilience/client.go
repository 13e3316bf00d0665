// Package resilience wraps outbound HTTP calls to the routing and transport
// data providers with retry and circuit breaking.
package resilience

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

var (
	// ErrCircuitOpen is returned without touching the network while the
	// breaker is open or half-open and saturated.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrMaxRetriesExceeded is returned when every retry attempt failed
	// without producing a response.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// ServerError marks a 5xx upstream response. It is surfaced as an error so
// the breaker counts it as a failure and the retry loop keeps going.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// CircuitBreakerConfig tunes the gobreaker instance guarding one upstream.
type CircuitBreakerConfig struct {
	Name string

	// MaxRequests allowed through while half-open. Default 1.
	MaxRequests uint32

	// Timeout is how long the breaker stays open before probing. Default 60s.
	Timeout time.Duration

	// ReadyToTrip decides when the breaker opens. Nil means DefaultReadyToTrip.
	ReadyToTrip func(counts gobreaker.Counts) bool
}

// DefaultCircuitBreakerConfig is the per-upstream default.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: DefaultReadyToTrip,
	}
}

// DefaultReadyToTrip opens the breaker once at least 5 requests were seen
// and half or more of them failed.
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < 5 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
}

// ClientConfig configures a resilient HTTP client.
type ClientConfig struct {
	Name string

	// Timeout per HTTP attempt. Default 10s.
	Timeout time.Duration

	// MaxRetries after the first attempt. Default 3.
	MaxRetries uint64

	// InitialInterval and MaxInterval bound the exponential backoff.
	// Defaults 100ms and 5s.
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// CircuitBreaker settings; nil takes DefaultCircuitBreakerConfig.
	CircuitBreaker *CircuitBreakerConfig
}

// DefaultClientConfig returns the defaults used by the provider clients.
func DefaultClientConfig(name string) ClientConfig {
	cb := DefaultCircuitBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		CircuitBreaker:  &cb,
	}
}

// Client retries transient failures with exponential backoff and trips a
// circuit breaker when an upstream stays unhealthy.
type Client struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	cfg     ClientConfig
}

// NewClient builds a client from cfg, filling zero fields with defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	cbCfg := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbCfg = *cfg.CircuitBreaker
	}
	if cbCfg.ReadyToTrip == nil {
		cbCfg.ReadyToTrip = DefaultReadyToTrip
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cbCfg.Name,
		MaxRequests: cbCfg.MaxRequests,
		Timeout:     cbCfg.Timeout,
		ReadyToTrip: cbCfg.ReadyToTrip,
	})

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		cfg:     cfg,
	}
}

// Do sends the request, retrying on network errors and 5xx responses.
// 4xx responses come back as-is without a retry. If retries run out on a
// 5xx, the last response is returned so the caller can inspect it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval
	bo.MaxElapsedTime = 0 // attempts are bounded by MaxRetries instead

	var last *http.Response

	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // ownership passes to the caller
			// Clone per attempt; the original request must not be reused.
			r, doErr := c.http.Do(req.Clone(ctx))
			if doErr != nil {
				return nil, doErr
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				last = resp
			}
			return err
		}
		last = resp
		return nil
	}

	retryPolicy := backoff.WithContext(backoff.WithMaxRetries(bo, c.cfg.MaxRetries), ctx)
	if err := backoff.Retry(attempt, retryPolicy); err != nil {
		if last != nil {
			return last, nil
		}
		return nil, err
	}
	return last, nil
}

// CircuitBreakerState exposes the breaker state for readiness reporting.
func (c *Client) CircuitBreakerState() gobreaker.State {
	return c.breaker.State()
}
