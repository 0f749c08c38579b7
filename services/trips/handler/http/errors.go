package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/fleetnav/internal/pkg/circuitbreaker"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/middleware"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/internal/utils"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrTripNotFound),
		errors.Is(err, models.ErrNotQueued):
		return http.StatusNotFound
	case errors.Is(err, models.ErrIllegalTransition),
		errors.Is(err, models.ErrPreconditionNotMet),
		errors.Is(err, models.ErrDuplicateTrip),
		errors.Is(err, models.ErrNoActiveTrip),
		errors.Is(err, models.ErrNoActiveRoute),
		errors.Is(err, models.ErrRecalculating):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnknownInspectionItem),
		errors.Is(err, models.ErrChecklistKind),
		errors.Is(err, models.ErrInvalidLocation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSyncFailed),
		errors.Is(err, models.ErrNoRouteFound),
		errors.Is(err, models.ErrSessionClosed),
		errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse writes err with its mapped status. Domain errors carry
// their own reason; unexpected ones are logged and reported with fallback.
func errorResponse(c echo.Context, err error, fallback string) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		driverID, _ := middleware.DriverID(c)
		logger.Error(fallback,
			logger.DriverID(driverID),
			logger.String("path", c.Path()),
			logger.Err(err))
		return utils.InternalServerErrorResponse(c, fallback)
	}
	return utils.ErrorResponseHandler(c, status, err.Error())
}
