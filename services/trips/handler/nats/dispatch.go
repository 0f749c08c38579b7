package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/piresc/fleetnav/internal/pkg/constants"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
	natspkg "github.com/piresc/fleetnav/internal/pkg/nats"
	"github.com/piresc/fleetnav/services/trips"
)

const assignTimeout = 5 * time.Second

type subscriber interface {
	Subscribe(subject string, handler natspkg.MessageHandler) (*nats.Subscription, error)
}

// DispatchHandler consumes trips assigned by the dispatch service
type DispatchHandler struct {
	tripUC trips.TripUC
	client subscriber
	subs   []*nats.Subscription
}

// NewDispatchHandler creates a new dispatch NATS handler
func NewDispatchHandler(tripUC trips.TripUC, client subscriber) *DispatchHandler {
	return &DispatchHandler{
		tripUC: tripUC,
		client: client,
		subs:   make([]*nats.Subscription, 0),
	}
}

// InitNATSConsumers subscribes to the dispatch subjects
func (h *DispatchHandler) InitNATSConsumers() error {
	logger.Info("Initializing NATS consumers for trips service",
		logger.String("subject", constants.SubjectTripAssigned))

	sub, err := h.client.Subscribe(constants.SubjectTripAssigned, h.handleTripAssigned)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", constants.SubjectTripAssigned, err)
	}
	h.subs = append(h.subs, sub)
	return nil
}

// Close unsubscribes every consumer
func (h *DispatchHandler) Close() {
	for _, sub := range h.subs {
		if sub == nil {
			continue
		}
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", logger.String("subject", sub.Subject), logger.Err(err))
		}
	}
	h.subs = h.subs[:0]
}

func (h *DispatchHandler) handleTripAssigned(data []byte) error {
	var trip models.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return fmt.Errorf("failed to unmarshal assigned trip: %w", err)
	}
	if trip.ID == "" || trip.DriverID == "" {
		return fmt.Errorf("assigned trip is missing trip or driver id")
	}
	if trip.Status != "" && trip.Status != models.TripStatusAssigned {
		return fmt.Errorf("trip %s was dispatched as %s", trip.ID, trip.Status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), assignTimeout)
	defer cancel()

	err := h.tripUC.AssignTrip(ctx, trip)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrSessionNotFound):
		// the trip is loaded from the database when the driver signs in
		logger.Debug("Driver offline, trip left for next sign in",
			logger.DriverID(trip.DriverID),
			logger.TripID(trip.ID))
		return nil
	case errors.Is(err, models.ErrDuplicateTrip):
		logger.Debug("Trip already known to session",
			logger.DriverID(trip.DriverID),
			logger.TripID(trip.ID))
		return nil
	default:
		return fmt.Errorf("failed to assign trip %s: %w", trip.ID, err)
	}
}
