package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/fleetnav/internal/pkg/constants"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// jsonPublisher is the part of the NATS client the event publisher needs
type jsonPublisher interface {
	PublishJSON(subject string, message interface{}) error
}

// EventPublisher publishes session events to NATS, one subject per event
// type
type EventPublisher struct {
	natsClient jsonPublisher
}

// NewEventPublisher creates a new NATS event publisher
func NewEventPublisher(client jsonPublisher) *EventPublisher {
	return &EventPublisher{natsClient: client}
}

// Subject returns the NATS subject an event type is published on
func Subject(t models.EventType) string {
	return constants.SubjectPrefix + string(t)
}

// PublishEvent publishes ev on fleet.<type>
func (g *EventPublisher) PublishEvent(ctx context.Context, ev models.Event) error {
	subject := Subject(ev.Type)
	if err := g.natsClient.PublishJSON(subject, ev); err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.Type, err)
	}

	logger.Debug("Published trip event",
		logger.String("subject", subject),
		logger.DriverID(ev.DriverID),
		logger.TripID(ev.TripID))
	return nil
}
