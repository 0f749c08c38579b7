package trips

import (
	"context"

	"github.com/piresc/fleetnav/internal/pkg/models"
)

// RoutingGW computes routes between two coordinates
//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/fleetnav/services/trips RoutingGW,EventGW,MaintenanceGW
type RoutingGW interface {
	Route(ctx context.Context, origin, destination models.Coordinate, avoidTolls bool) (*models.RoutePlan, error)
}

// EventGW publishes session events to other services
type EventGW interface {
	PublishEvent(ctx context.Context, event models.Event) error
}

// MaintenanceGW hands maintenance requests to the maintenance queue
type MaintenanceGW interface {
	PublishMaintenanceRequest(ctx context.Context, req *models.MaintenanceRequest) error
}
