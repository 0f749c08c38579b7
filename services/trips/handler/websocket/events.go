package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/piresc/fleetnav/internal/pkg/constants"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/middleware"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/internal/pkg/websocket"
	"github.com/piresc/fleetnav/internal/utils"
	"github.com/piresc/fleetnav/services/trips"
)

// EventsHandler streams session events to the driver app and accepts
// location frames from it
type EventsHandler struct {
	wsManager *websocket.Manager
	tripUC    trips.TripUC
	validate  *validator.Validate
}

// NewEventsHandler creates a new websocket events handler
func NewEventsHandler(wsManager *websocket.Manager, tripUC trips.TripUC) *EventsHandler {
	return &EventsHandler{
		wsManager: wsManager,
		tripUC:    tripUC,
		validate:  validator.New(),
	}
}

// HandleWebSocket upgrades the request and serves the connection until
// either side closes it
func (h *EventsHandler) HandleWebSocket(c echo.Context) error {
	driverID, ok := middleware.DriverID(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "Missing driver identity")
	}

	client, err := h.wsManager.Upgrade(c, driverID)
	if err != nil {
		// the upgrader has already written the failure response
		logger.Warn("WebSocket upgrade failed", logger.DriverID(driverID), logger.Err(err))
		return nil
	}
	defer h.wsManager.Remove(client)

	ctx := c.Request().Context()
	client.OnMessage = func(msg websocket.Message) {
		h.handleMessage(ctx, client, msg)
	}

	// subscribe before the snapshot so no event falls between them
	events, unsubscribe := h.tripUC.Subscribe(driverID)
	defer unsubscribe()

	_ = client.Send(constants.EventConnected, map[string]string{"driver_id": driverID})
	if snap, err := h.tripUC.Snapshot(driverID); err != nil {
		_ = client.SendError(constants.ErrorSessionNotFound, err.Error())
	} else {
		_ = client.Send(constants.EventSnapshot, snap)
	}

	go forward(client, events)

	logger.Info("WebSocket connected", logger.DriverID(driverID))
	client.Run(ctx)
	logger.Info("WebSocket disconnected", logger.DriverID(driverID))
	return nil
}

// forward relays events until the subscription ends. A closed
// subscription means the session is gone, so the connection is closed too.
func forward(client *websocket.Client, events <-chan models.Event) {
	for {
		select {
		case <-client.Done():
			return
		case ev, ok := <-events:
			if !ok {
				client.Close()
				return
			}
			if err := client.Send(string(ev.Type), ev); err != nil {
				logger.Debug("Dropping event for closed client",
					logger.DriverID(client.DriverID),
					logger.String("event", string(ev.Type)),
					logger.Err(err))
				return
			}
		}
	}
}

func (h *EventsHandler) handleMessage(ctx context.Context, client *websocket.Client, msg websocket.Message) {
	switch msg.Event {
	case constants.EventLocationUpdate:
		h.handleLocationUpdate(ctx, client, msg.Data)
	default:
		_ = client.SendError(constants.ErrorInvalidFormat, "Unknown event type")
	}
}

func (h *EventsHandler) handleLocationUpdate(ctx context.Context, client *websocket.Client, data json.RawMessage) {
	var req models.LocationUpdateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		_ = client.SendError(constants.ErrorInvalidFormat, "Invalid location update format")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		_ = client.SendError(constants.ErrorInvalidLocation, "Validation failed: "+err.Error())
		return
	}

	err := h.tripUC.IngestLocation(ctx, client.DriverID, req.Sample(models.Now()))
	switch {
	case err == nil:
	case errors.Is(err, models.ErrSessionNotFound):
		_ = client.SendError(constants.ErrorSessionNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidLocation):
		_ = client.SendError(constants.ErrorInvalidLocation, err.Error())
	default:
		logger.Error("Failed to ingest location over websocket",
			logger.DriverID(client.DriverID),
			logger.Err(err))
		_ = client.SendError(constants.ErrorInternalError, "Failed to update location")
	}
}
