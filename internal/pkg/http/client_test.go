package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/piresc/fleetnav/internal/pkg/circuitbreaker"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetry() retry.Config {
	return retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
}

func TestClient_GetJSON(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a b", r.URL.Query().Get("origin"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()
	client := NewClient("routing", srv.URL, time.Second, testRetry(), logger.NewNopLogger())

	// Act
	var out struct{ Status string }
	err := client.GetJSON(context.Background(), url.Values{"origin": {"a b"}}, &out)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "OK", out.Status)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	client := NewClient("routing", srv.URL, time.Second, testRetry(), logger.NewNopLogger())

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), nil, &out)

	assert.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()
	client := NewClient("routing", srv.URL, time.Second, testRetry(), logger.NewNopLogger())

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), nil, &out)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Equal(t, "bad key", httpErr.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_BreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	client := NewClient("routing", srv.URL, time.Second, retry.Config{MaxRetries: 0}, logger.NewNopLogger())

	var out map[string]interface{}
	for i := 0; i < 5; i++ {
		_ = client.GetJSON(context.Background(), nil, &out)
	}
	err := client.GetJSON(context.Background(), nil, &out)

	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitBreakerOpen)
	assert.Equal(t, circuitbreaker.StateOpen, client.Breaker().State())
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()
	client := NewClient("routing", srv.URL, time.Second, retry.Config{MaxRetries: 0}, logger.NewNopLogger())

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), nil, &out)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&HTTPError{StatusCode: 503}))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: 429}))
	assert.False(t, IsRetryable(&HTTPError{StatusCode: 400}))
	assert.False(t, IsRetryable(context.Canceled))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
}
