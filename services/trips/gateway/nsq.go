package gateway

import (
	"context"
	"fmt"

	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// topicPublisher is the part of the NSQ producer the maintenance publisher
// needs
type topicPublisher interface {
	Publish(topic string, message interface{}) error
}

// MaintenancePublisher hands maintenance requests to the workshop queue
type MaintenancePublisher struct {
	producer topicPublisher
	topic    string
}

// NewMaintenancePublisher creates a publisher for the given NSQ topic
func NewMaintenancePublisher(producer topicPublisher, topic string) *MaintenancePublisher {
	return &MaintenancePublisher{producer: producer, topic: topic}
}

// PublishMaintenanceRequest publishes req on the maintenance topic
func (g *MaintenancePublisher) PublishMaintenanceRequest(ctx context.Context, req *models.MaintenanceRequest) error {
	if err := g.producer.Publish(g.topic, req); err != nil {
		return fmt.Errorf("failed to publish maintenance request: %w", err)
	}

	logger.Info("Maintenance request queued",
		logger.String("request_id", req.ID),
		logger.String("vehicle_id", req.VehicleID),
		logger.String("priority", string(req.Priority)))
	return nil
}
