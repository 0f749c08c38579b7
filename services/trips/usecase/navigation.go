package usecase

import (
	"context"

	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// IngestLocation feeds a location sample to the driver's session and caches
// it. A cache failure does not fail the update.
func (uc *tripUC) IngestLocation(ctx context.Context, driverID string, sample models.LocationSample) error {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return err
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = models.Now()
	}

	if err := sess.IngestLocation(ctx, sample); err != nil {
		return err
	}

	var tripID string
	if active := sess.Snapshot().Active; active != nil {
		tripID = active.ID
	}
	if err := uc.locationRepo.SaveLocation(ctx, driverID, tripID, sample); err != nil {
		logger.Warn("Failed to cache driver location",
			logger.DriverID(driverID),
			logger.Err(err))
	}
	return nil
}

// StartNavigation begins route tracking for the driver's running trip
func (uc *tripUC) StartNavigation(ctx context.Context, driverID string) (models.NavigationSnapshot, error) {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return models.NavigationSnapshot{}, err
	}

	nav, err := sess.StartNavigation(ctx)
	if err != nil {
		return models.NavigationSnapshot{}, err
	}

	logger.Info("Navigation started",
		logger.DriverID(driverID),
		logger.TripID(nav.TripID))
	return nav, nil
}

// StopNavigation ends route tracking
func (uc *tripUC) StopNavigation(ctx context.Context, driverID string) error {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return err
	}
	return sess.StopNavigation(ctx)
}

// Recalculate asks for a fresh route right away
func (uc *tripUC) Recalculate(ctx context.Context, driverID string) error {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return err
	}
	return sess.Recalculate(ctx)
}
