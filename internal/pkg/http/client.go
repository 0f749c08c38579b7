package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/piresc/fleetnav/internal/pkg/circuitbreaker"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/retry"
)

// HTTPError is a non-2xx response
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsRetryable retries server errors and transport failures, never 4xx
func IsRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}
	return retry.IsTransient(err)
}

// Client is an outbound JSON client guarded by a circuit breaker, with
// optional retries inside the breaker
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	breaker *circuitbreaker.CircuitBreaker
	retrier *retry.Retrier
}

// NewClient creates a new HTTP client for one upstream service
func NewClient(serviceName, baseURL string, timeout time.Duration, retryCfg retry.Config, zl *logger.ZapLogger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	retryCfg.Retryable = IsRetryable

	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		breaker:    circuitbreaker.New(circuitbreaker.DefaultConfig(serviceName), zl),
		retrier:    retry.New(retryCfg, zl),
	}
}

// Breaker exposes the circuit breaker for health reporting
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// GetJSON issues GET BaseURL?query and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, query url.Values, out interface{}) error {
	endpoint := c.BaseURL
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Execute(ctx, "GET "+c.breaker.Name(), func(ctx context.Context) error {
			return c.do(ctx, endpoint, out)
		})
	})
}

func (c *Client) do(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("HTTP request completed",
		logger.String("service", c.breaker.Name()),
		logger.Int("status_code", resp.StatusCode),
		logger.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
