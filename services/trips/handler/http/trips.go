package http

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/middleware"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/internal/utils"
	"github.com/piresc/fleetnav/services/trips"
	"github.com/piresc/fleetnav/services/trips/inspection"
)

// TripsHandler handles the driver-facing trip API
type TripsHandler struct {
	tripUC   trips.TripUC
	validate *validator.Validate
}

// NewTripsHandler creates a new trips HTTP handler
func NewTripsHandler(tripUC trips.TripUC) *TripsHandler {
	return &TripsHandler{
		tripUC:   tripUC,
		validate: validator.New(),
	}
}

// OpenSession signs the driver in and loads their trips
func (h *TripsHandler) OpenSession(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	var req models.OpenSessionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed: "+err.Error())
	}
	if req.VehicleID == "" {
		req.VehicleID, _ = c.Get(middleware.ContextVehicleID).(string)
	}

	snap, err := h.tripUC.OpenSession(c.Request().Context(), driverID, req.VehicleID)
	if err != nil {
		return errorResponse(c, err, "Failed to open session")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Session opened", snap)
}

// CloseSession signs the driver out
func (h *TripsHandler) CloseSession(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	if err := h.tripUC.CloseSession(c.Request().Context(), driverID); err != nil {
		return errorResponse(c, err, "Failed to close session")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Session closed", nil)
}

// GetSession returns the driver's trips and navigation state
func (h *TripsHandler) GetSession(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	snap, err := h.tripUC.Snapshot(driverID)
	if err != nil {
		return errorResponse(c, err, "Failed to get session")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Session retrieved", snap)
}

// ActivateNext starts the next queued trip
func (h *TripsHandler) ActivateNext(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	trip, err := h.tripUC.ActivateNext(c.Request().Context(), driverID)
	if err != nil {
		return errorResponse(c, err, "Failed to start trip")
	}
	if trip == nil {
		return utils.SuccessResponse(c, http.StatusOK, "No trip to start", nil)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip started", trip)
}

// DeclineTrip removes a queued trip
func (h *TripsHandler) DeclineTrip(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	tripID := c.Param("tripID")
	if tripID == "" {
		return utils.BadRequestResponse(c, "Trip ID is required")
	}

	if err := h.tripUC.DeclineTrip(c.Request().Context(), driverID, tripID); err != nil {
		return errorResponse(c, err, "Failed to decline trip")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip declined", nil)
}

// InspectionTemplate returns the blank checklist for an inspection kind
func (h *TripsHandler) InspectionTemplate(c echo.Context) error {
	kind, ok := parseKind(c.Param("kind"))
	if !ok {
		return utils.BadRequestResponse(c, "Unknown inspection kind")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Inspection template", inspection.NewChecklist(kind).Items())
}

// CompletePreTrip records the pre-trip inspection
func (h *TripsHandler) CompletePreTrip(c echo.Context) error {
	return h.completeInspection(c, models.InspectionPreTrip)
}

// CompletePostTrip records the post-trip inspection
func (h *TripsHandler) CompletePostTrip(c echo.Context) error {
	return h.completeInspection(c, models.InspectionPostTrip)
}

func (h *TripsHandler) completeInspection(c echo.Context, kind models.InspectionKind) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	tripID := c.Param("tripID")
	if tripID == "" {
		return utils.BadRequestResponse(c, "Trip ID is required")
	}

	var req models.InspectionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed: "+err.Error())
	}

	complete, message := h.tripUC.CompletePreTrip, "Pre-trip inspection completed"
	if kind == models.InspectionPostTrip {
		complete, message = h.tripUC.CompletePostTrip, "Post-trip inspection completed"
	}
	trip, maintenance, err := complete(c.Request().Context(), driverID, tripID, req.Items)
	if err != nil {
		if maintenance != nil {
			logger.Info("Inspection refused, maintenance requested",
				logger.DriverID(driverID),
				logger.TripID(tripID),
				logger.String("request_id", maintenance.ID))
		}
		return errorResponse(c, err, "Failed to complete "+kind.Label())
	}

	return utils.SuccessResponse(c, http.StatusOK, message, models.InspectionResponse{
		Trip:               trip,
		MaintenanceRequest: maintenance,
	})
}

// MarkDelivered closes the trip and starts the next one
func (h *TripsHandler) MarkDelivered(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	tripID := c.Param("tripID")
	if tripID == "" {
		return utils.BadRequestResponse(c, "Trip ID is required")
	}

	delivered, next, err := h.tripUC.MarkDelivered(c.Request().Context(), driverID, tripID)
	if err != nil {
		return errorResponse(c, err, "Failed to mark trip delivered")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip delivered", models.DeliveryResponse{
		Delivered: delivered,
		Next:      next,
	})
}

// UpdateLocation ingests one location reading
func (h *TripsHandler) UpdateLocation(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	var req models.LocationUpdateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed: "+err.Error())
	}

	if err := h.tripUC.IngestLocation(c.Request().Context(), driverID, req.Sample(models.Now())); err != nil {
		return errorResponse(c, err, "Failed to update location")
	}
	return c.NoContent(http.StatusAccepted)
}

// StartNavigation begins route tracking for the running trip
func (h *TripsHandler) StartNavigation(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	nav, err := h.tripUC.StartNavigation(c.Request().Context(), driverID)
	if err != nil {
		return errorResponse(c, err, "Failed to start navigation")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Navigation started", nav)
}

// StopNavigation ends route tracking
func (h *TripsHandler) StopNavigation(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	if err := h.tripUC.StopNavigation(c.Request().Context(), driverID); err != nil {
		return errorResponse(c, err, "Failed to stop navigation")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Navigation stopped", nil)
}

// Recalculate requests a fresh route
func (h *TripsHandler) Recalculate(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	if err := h.tripUC.Recalculate(c.Request().Context(), driverID); err != nil {
		return errorResponse(c, err, "Failed to recalculate route")
	}
	return utils.SuccessResponse(c, http.StatusAccepted, "Route recalculation requested", nil)
}

// GetNavigation returns the navigation read model
func (h *TripsHandler) GetNavigation(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	snap, err := h.tripUC.Snapshot(driverID)
	if err != nil {
		return errorResponse(c, err, "Failed to get navigation")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Navigation retrieved", snap.Navigation)
}

func parseKind(raw string) (models.InspectionKind, bool) {
	switch strings.ReplaceAll(raw, "-", "_") {
	case string(models.InspectionPreTrip):
		return models.InspectionPreTrip, true
	case string(models.InspectionPostTrip):
		return models.InspectionPostTrip, true
	default:
		return "", false
	}
}
