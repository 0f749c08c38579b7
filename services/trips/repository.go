package trips

import (
	"context"

	"github.com/piresc/fleetnav/internal/pkg/models"
)

// TripRepo defines the interface for trip persistence
//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/fleetnav/services/trips TripRepo,LocationRepo
type TripRepo interface {
	GetDriverTrips(ctx context.Context, driverID string) ([]models.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	UpdateTripState(ctx context.Context, trip *models.Trip) error
	CreateMaintenanceRequest(ctx context.Context, req *models.MaintenanceRequest) error
	UpdateVehicleStatus(ctx context.Context, vehicleID, status string) error
}

// LocationRepo defines the interface for the driver location cache
type LocationRepo interface {
	SaveLocation(ctx context.Context, driverID, tripID string, sample models.LocationSample) error
	LastLocation(ctx context.Context, driverID string) (*models.LocationSample, error)
	SetActiveTrip(ctx context.Context, driverID, tripID string) error
	ClearActiveTrip(ctx context.Context, driverID string) error
	RemoveDriver(ctx context.Context, driverID string) error
}
