package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

const tripColumns = `
	id, driver_id, vehicle_id,
	pickup_description, pickup_latitude, pickup_longitude,
	destination_description, destination_latitude, destination_longitude,
	status, has_completed_pre_trip, has_completed_post_trip,
	notes, start_time, end_time, created_at, version`

type tripRow struct {
	ID                     string         `db:"id"`
	DriverID               string         `db:"driver_id"`
	VehicleID              string         `db:"vehicle_id"`
	PickupDescription      string         `db:"pickup_description"`
	PickupLatitude         float64        `db:"pickup_latitude"`
	PickupLongitude        float64        `db:"pickup_longitude"`
	DestinationDescription string         `db:"destination_description"`
	DestinationLatitude    float64        `db:"destination_latitude"`
	DestinationLongitude   float64        `db:"destination_longitude"`
	Status                 string         `db:"status"`
	HasCompletedPreTrip    bool           `db:"has_completed_pre_trip"`
	HasCompletedPostTrip   bool           `db:"has_completed_post_trip"`
	Notes                  sql.NullString `db:"notes"`
	StartTime              sql.NullTime   `db:"start_time"`
	EndTime                sql.NullTime   `db:"end_time"`
	CreatedAt              time.Time      `db:"created_at"`
	Version                int            `db:"version"`
}

func (r tripRow) toModel() models.Trip {
	trip := models.Trip{
		ID:        r.ID,
		DriverID:  r.DriverID,
		VehicleID: r.VehicleID,
		Pickup: models.Place{
			Description: r.PickupDescription,
			Coordinate:  models.Coordinate{Latitude: r.PickupLatitude, Longitude: r.PickupLongitude},
		},
		Destination: models.Place{
			Description: r.DestinationDescription,
			Coordinate:  models.Coordinate{Latitude: r.DestinationLatitude, Longitude: r.DestinationLongitude},
		},
		Status:               models.TripStatus(r.Status),
		HasCompletedPreTrip:  r.HasCompletedPreTrip,
		HasCompletedPostTrip: r.HasCompletedPostTrip,
		Notes:                r.Notes.String,
		CreatedAt:            r.CreatedAt,
		Version:              r.Version,
		Sync:                 models.SyncConfirmed,
	}
	if r.StartTime.Valid {
		trip.StartTime = models.TimePtr(r.StartTime.Time)
	}
	if r.EndTime.Valid {
		trip.EndTime = models.TimePtr(r.EndTime.Time)
	}
	return trip
}

// TripRepo stores trips, vehicles and maintenance requests in Postgres
type TripRepo struct {
	cfg *models.Config
	db  *sqlx.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(cfg *models.Config, db *sqlx.DB) *TripRepo {
	return &TripRepo{
		cfg: cfg,
		db:  db,
	}
}

// GetDriverTrips returns the driver's assigned and in-progress trips,
// oldest first
func (r *TripRepo) GetDriverTrips(ctx context.Context, driverID string) ([]models.Trip, error) {
	query := `SELECT` + tripColumns + `
		FROM trips
		WHERE driver_id = $1 AND status IN ('assigned', 'in_progress')
		ORDER BY created_at ASC`

	var rows []tripRow
	if err := r.db.SelectContext(ctx, &rows, query, driverID); err != nil {
		return nil, fmt.Errorf("failed to get driver trips: %w", err)
	}

	trips := make([]models.Trip, 0, len(rows))
	for _, row := range rows {
		trips = append(trips, row.toModel())
	}
	return trips, nil
}

// GetTrip retrieves a trip by ID
func (r *TripRepo) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	query := `SELECT` + tripColumns + `
		FROM trips
		WHERE id = $1`

	var row tripRow
	if err := r.db.GetContext(ctx, &row, query, tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	trip := row.toModel()
	return &trip, nil
}

// UpdateTripState writes the lifecycle fields of a trip. A write whose
// version is already stored is treated as applied. A write older than the
// stored version fails with ErrStaleTrip.
func (r *TripRepo) UpdateTripState(ctx context.Context, trip *models.Trip) error {
	query := `
		UPDATE trips
		SET status = $1, has_completed_pre_trip = $2, has_completed_post_trip = $3,
			start_time = $4, end_time = $5, version = $6, updated_at = NOW()
		WHERE id = $7 AND version < $6`

	result, err := r.db.ExecContext(ctx, query,
		trip.Status,
		trip.HasCompletedPreTrip,
		trip.HasCompletedPostTrip,
		trip.StartTime,
		trip.EndTime,
		trip.Version,
		trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	var stored int
	err = r.db.GetContext(ctx, &stored, `SELECT version FROM trips WHERE id = $1`, trip.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrTripNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read trip version: %w", err)
	}
	switch {
	case stored == trip.Version:
		return nil
	case stored > trip.Version:
		return fmt.Errorf("%w: stored version %d, write version %d", models.ErrStaleTrip, stored, trip.Version)
	}
	return fmt.Errorf("trip %s update not applied at version %d", trip.ID, trip.Version)
}

// CreateMaintenanceRequest records a maintenance ticket
func (r *TripRepo) CreateMaintenanceRequest(ctx context.Context, req *models.MaintenanceRequest) error {
	issues, err := json.Marshal(req.Issues)
	if err != nil {
		return fmt.Errorf("failed to marshal issues: %w", err)
	}

	query := `
		INSERT INTO maintenance_requests (
			id, trip_id, vehicle_id, driver_id, kind, priority, issues, description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		req.ID,
		req.TripID,
		req.VehicleID,
		req.DriverID,
		req.Kind,
		req.Priority,
		string(issues),
		req.Description,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create maintenance request: %w", err)
	}
	return nil
}

// UpdateVehicleStatus sets the status column of a vehicle
func (r *TripRepo) UpdateVehicleStatus(ctx context.Context, vehicleID, status string) error {
	query := `UPDATE vehicles SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, vehicleID)
	if err != nil {
		return fmt.Errorf("failed to update vehicle status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("vehicle not found: %s", vehicleID)
	}
	return nil
}
