package trips

import (
	"context"

	"github.com/piresc/fleetnav/internal/pkg/models"
)

// TripUC defines the interface for driver session business logic
//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/fleetnav/services/trips TripUC
type TripUC interface {
	OpenSession(ctx context.Context, driverID, vehicleID string) (models.SessionSnapshot, error)
	CloseSession(ctx context.Context, driverID string) error
	Snapshot(driverID string) (models.SessionSnapshot, error)
	Subscribe(driverID string) (<-chan models.Event, func())

	AssignTrip(ctx context.Context, trip models.Trip) error
	ActivateNext(ctx context.Context, driverID string) (*models.Trip, error)
	DeclineTrip(ctx context.Context, driverID, tripID string) error
	CompletePreTrip(ctx context.Context, driverID, tripID string, items []models.ItemState) (*models.Trip, *models.MaintenanceRequest, error)
	CompletePostTrip(ctx context.Context, driverID, tripID string, items []models.ItemState) (*models.Trip, *models.MaintenanceRequest, error)
	MarkDelivered(ctx context.Context, driverID, tripID string) (*models.Trip, *models.Trip, error)

	IngestLocation(ctx context.Context, driverID string, sample models.LocationSample) error
	StartNavigation(ctx context.Context, driverID string) (models.NavigationSnapshot, error)
	StopNavigation(ctx context.Context, driverID string) error
	Recalculate(ctx context.Context, driverID string) error

	Shutdown(ctx context.Context)
}
