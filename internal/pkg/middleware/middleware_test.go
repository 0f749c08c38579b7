package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/fleetnav/internal/pkg/jwt"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var testJWTConfig = models.JWTConfig{Secret: "middleware-secret", Issuer: "fleetnav-test"}

func okHandler(c echo.Context) error {
	id, _ := DriverID(c)
	return c.String(http.StatusOK, id)
}

func TestJWTAuthMiddleware(t *testing.T) {
	driverID := uuid.New()
	valid, err := jwtpkg.GenerateToken(driverID, jwtpkg.RoleDriver, "v1", time.Hour, testJWTConfig)
	require.NoError(t, err)
	manager, err := jwtpkg.GenerateToken(uuid.New(), "fleet_manager", "", time.Hour, testJWTConfig)
	require.NoError(t, err)

	tests := []struct {
		name         string
		header       string
		query        string
		expectStatus int
		expectBody   string
	}{
		{name: "valid bearer", header: "Bearer " + valid, expectStatus: http.StatusOK, expectBody: driverID.String()},
		{name: "token query for websocket", query: "?token=" + valid, expectStatus: http.StatusOK, expectBody: driverID.String()},
		{name: "missing header", expectStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, expectStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", expectStatus: http.StatusUnauthorized},
		{name: "not a driver", header: "Bearer " + manager, expectStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/session"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			// Act
			err := JWTAuthMiddleware(testJWTConfig)(okHandler)(c)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expectStatus, rec.Code)
			if tt.expectBody != "" {
				assert.Equal(t, tt.expectBody, rec.Body.String())
				assert.Equal(t, "v1", c.Get(ContextVehicleID))
			}
		})
	}
}

func TestPanicRecoveryWithZapMiddleware(t *testing.T) {
	// Arrange
	var logBuffer bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&logBuffer),
		zapcore.DebugLevel,
	)
	zl := &logger.ZapLogger{Logger: zap.New(core)}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/next", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Act
	err := PanicRecoveryWithZapMiddleware(zl)(func(c echo.Context) error {
		panic("queue corrupted")
	})(c)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, logBuffer.String(), "queue corrupted")
	assert.Contains(t, logBuffer.String(), "/api/v1/trips/next")
}

func TestPanicRecoveryWithZapMiddleware_RequiresLogger(t *testing.T) {
	assert.Panics(t, func() { PanicRecoveryWithZapMiddleware(nil) })
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, RequestIDMiddleware()(okHandler)(c))

		id := rec.Header().Get(echo.HeaderXRequestID)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, c.Get("request_id"))
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRequestID, "req-123")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, RequestIDMiddleware()(okHandler)(c))

		assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
	})
}

func TestDriverRateLimiter(t *testing.T) {
	// Arrange
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	e := echo.New()
	limiter := DriverRateLimiter(2, time.Minute, client)
	call := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/locations", nil), rec)
		c.SetPath("/api/v1/locations")
		c.Set(ContextDriverID, "driver-1")
		require.NoError(t, limiter(okHandler)(c))
		return rec
	}

	// Act
	first := call()
	second := call()
	third := call()

	// Assert
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "60", third.Header().Get("Retry-After"))

	// window expiry resets the counter
	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, call().Code)
}

func TestDriverRateLimiter_FailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/v1/locations", nil), rec)

	require.NoError(t, DriverRateLimiter(1, time.Minute, client)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
