package handler

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/piresc/fleetnav/internal/pkg/middleware"
	"github.com/piresc/fleetnav/internal/pkg/models"
	natspkg "github.com/piresc/fleetnav/internal/pkg/nats"
	"github.com/piresc/fleetnav/internal/pkg/websocket"
	"github.com/piresc/fleetnav/services/trips"
	httpHandler "github.com/piresc/fleetnav/services/trips/handler/http"
	natsHandler "github.com/piresc/fleetnav/services/trips/handler/nats"
	wsHandler "github.com/piresc/fleetnav/services/trips/handler/websocket"
)

// Handler combines all handlers for the trips service
type Handler struct {
	tripsHTTP    *httpHandler.TripsHandler
	dispatchNATS *natsHandler.DispatchHandler
	eventsWS     *wsHandler.EventsHandler
	cfg          *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(
	tripUC trips.TripUC,
	natsClient *natspkg.Client,
	wsManager *websocket.Manager,
	cfg *models.Config,
) *Handler {
	return &Handler{
		tripsHTTP:    httpHandler.NewTripsHandler(tripUC),
		dispatchNATS: natsHandler.NewDispatchHandler(tripUC, natsClient),
		eventsWS:     wsHandler.NewEventsHandler(wsManager, tripUC),
		cfg:          cfg,
	}
}

// RegisterRoutes registers all HTTP routes. Every driver route requires a
// bearer token; location ingestion is additionally rate limited per driver.
func (h *Handler) RegisterRoutes(e *echo.Echo, redisClient *redis.Client) {
	api := e.Group("/api/v1", middleware.JWTAuthMiddleware(h.cfg.JWT))

	api.POST("/sessions", h.tripsHTTP.OpenSession)
	api.DELETE("/sessions", h.tripsHTTP.CloseSession)
	api.GET("/session", h.tripsHTTP.GetSession)

	api.GET("/inspections/:kind/template", h.tripsHTTP.InspectionTemplate)

	tripsGroup := api.Group("/trips")
	tripsGroup.POST("/next", h.tripsHTTP.ActivateNext)
	tripsGroup.POST("/:tripID/decline", h.tripsHTTP.DeclineTrip)
	tripsGroup.POST("/:tripID/inspections/pre-trip", h.tripsHTTP.CompletePreTrip)
	tripsGroup.POST("/:tripID/inspections/post-trip", h.tripsHTTP.CompletePostTrip)
	tripsGroup.POST("/:tripID/deliver", h.tripsHTTP.MarkDelivered)

	api.POST("/locations", h.tripsHTTP.UpdateLocation,
		middleware.DriverRateLimiter(h.cfg.RateLimit.LocationLimit, h.cfg.RateLimit.LocationPeriod, redisClient))

	nav := api.Group("/navigation")
	nav.GET("", h.tripsHTTP.GetNavigation)
	nav.POST("/start", h.tripsHTTP.StartNavigation)
	nav.POST("/stop", h.tripsHTTP.StopNavigation)
	nav.POST("/recalculate", h.tripsHTTP.Recalculate)

	api.GET("/ws", h.eventsWS.HandleWebSocket)
}

// InitNATSConsumers initializes all NATS consumers
func (h *Handler) InitNATSConsumers() error {
	return h.dispatchNATS.InitNATSConsumers()
}

// Close stops the NATS consumers
func (h *Handler) Close() {
	h.dispatchNATS.Close()
}
