package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/fleetnav/internal/pkg/jwt"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/internal/pkg/websocket"
	"github.com/piresc/fleetnav/services/trips/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = models.JWTConfig{Secret: "test-secret", Issuer: "fleetnav"}

func setupRoutes(t *testing.T) (*echo.Echo, *mocks.MockTripUC) {
	ctrl := gomock.NewController(t)
	tripUC := mocks.NewMockTripUC(ctrl)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &models.Config{
		JWT:       testJWT,
		RateLimit: models.RateLimitConfig{LocationLimit: 1, LocationPeriod: time.Minute},
	}
	h := NewHandler(tripUC, nil, websocket.NewManager(), cfg)

	e := echo.New()
	h.RegisterRoutes(e, rdb)
	return e, tripUC
}

func bearer(t *testing.T, driverID uuid.UUID) string {
	token, err := jwtpkg.GenerateToken(driverID, jwtpkg.RoleDriver, "truck-1", time.Hour, testJWT)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRegisterRoutes_RequiresToken(t *testing.T) {
	e, _ := setupRoutes(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRoutes_Session(t *testing.T) {
	// Arrange
	e, tripUC := setupRoutes(t)
	driverID := uuid.New()
	tripUC.EXPECT().Snapshot(driverID.String()).Return(models.SessionSnapshot{DriverID: driverID.String()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, driverID))
	rec := httptest.NewRecorder()

	// Act
	e.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), driverID.String())
}

func TestRegisterRoutes_LocationRateLimit(t *testing.T) {
	e, tripUC := setupRoutes(t)
	driverID := uuid.New()
	tripUC.EXPECT().IngestLocation(gomock.Any(), driverID.String(), gomock.Any()).Return(nil).Times(1)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/locations",
			strings.NewReader(`{"latitude":-6.2,"longitude":106.8}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, bearer(t, driverID))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusAccepted, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRegisterRoutes_Table(t *testing.T) {
	e, _ := setupRoutes(t)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/sessions",
		"DELETE /api/v1/sessions",
		"GET /api/v1/session",
		"GET /api/v1/inspections/:kind/template",
		"POST /api/v1/trips/next",
		"POST /api/v1/trips/:tripID/decline",
		"POST /api/v1/trips/:tripID/inspections/pre-trip",
		"POST /api/v1/trips/:tripID/inspections/post-trip",
		"POST /api/v1/trips/:tripID/deliver",
		"POST /api/v1/locations",
		"GET /api/v1/navigation",
		"POST /api/v1/navigation/start",
		"POST /api/v1/navigation/stop",
		"POST /api/v1/navigation/recalculate",
		"GET /api/v1/ws",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}
