package usecase

import (
	"context"
	"fmt"

	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/services/trips/inspection"
	"github.com/piresc/fleetnav/services/trips/session"
)

// AssignTrip queues a newly dispatched trip on the driver's open session
func (uc *tripUC) AssignTrip(ctx context.Context, trip models.Trip) error {
	sess, err := uc.mustSession(trip.DriverID)
	if err != nil {
		return err
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusAssigned
	}
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = models.Now()
	}

	if err := sess.Enqueue(ctx, trip); err != nil {
		return fmt.Errorf("failed to queue trip %s: %w", trip.ID, err)
	}

	logger.Info("Trip assigned",
		logger.DriverID(trip.DriverID),
		logger.TripID(trip.ID))
	uc.emit(trip.DriverID, trip.ID, models.EventTripAssigned, trip)
	return nil
}

// ActivateNext starts the next queued trip. It returns nil when a trip is
// still running or nothing is queued.
func (uc *tripUC) ActivateNext(ctx context.Context, driverID string) (*models.Trip, error) {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return nil, err
	}
	return uc.activateNext(ctx, sess)
}

func (uc *tripUC) activateNext(ctx context.Context, sess *session.Session) (*models.Trip, error) {
	tr, err := sess.ActivateNext(ctx)
	if err != nil || tr == nil {
		return nil, err
	}

	trip, err := uc.persist(ctx, sess, tr, models.EventTripStarted)
	if err != nil {
		return nil, err
	}
	uc.cacheActiveTrip(ctx, sess.DriverID(), trip.ID)
	return trip, nil
}

// DeclineTrip removes a queued trip from the driver's queue
func (uc *tripUC) DeclineTrip(ctx context.Context, driverID, tripID string) error {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return err
	}

	trip, err := sess.Decline(ctx, tripID)
	if err != nil {
		return err
	}

	logger.Info("Trip declined",
		logger.DriverID(driverID),
		logger.TripID(tripID))
	uc.emit(driverID, tripID, models.EventTripDeclined, trip)
	return nil
}

// CompletePreTrip records the pre-trip inspection. Reported issues raise an
// urgent maintenance request.
func (uc *tripUC) CompletePreTrip(ctx context.Context, driverID, tripID string, items []models.ItemState) (*models.Trip, *models.MaintenanceRequest, error) {
	return uc.completeInspection(ctx, driverID, tripID, models.InspectionPreTrip, items)
}

// CompletePostTrip records the post-trip inspection. Reported issues raise a
// low priority maintenance request.
func (uc *tripUC) CompletePostTrip(ctx context.Context, driverID, tripID string, items []models.ItemState) (*models.Trip, *models.MaintenanceRequest, error) {
	return uc.completeInspection(ctx, driverID, tripID, models.InspectionPostTrip, items)
}

func (uc *tripUC) completeInspection(ctx context.Context, driverID, tripID string, kind models.InspectionKind, items []models.ItemState) (*models.Trip, *models.MaintenanceRequest, error) {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return nil, nil, err
	}

	cl, err := inspection.FromStates(kind, items)
	if err != nil {
		return nil, nil, err
	}

	var (
		tr     *session.Transition
		evType models.EventType
		trErr  error
	)
	if kind == models.InspectionPreTrip {
		tr, trErr = sess.CompletePreTrip(ctx, tripID, cl)
		evType = models.EventTripPreTripCompleted
	} else {
		tr, trErr = sess.CompletePostTrip(ctx, tripID, cl)
		evType = models.EventTripPostTripCompleted
	}
	if trErr != nil {
		// a blocked inspection still reports its defects
		if tr != nil && tr.Maintenance != nil {
			uc.raiseMaintenance(ctx, tr.Maintenance)
			return nil, tr.Maintenance, trErr
		}
		return nil, nil, trErr
	}

	trip, err := uc.persist(ctx, sess, tr, evType)
	if err != nil {
		return nil, nil, err
	}
	if tr.Maintenance != nil {
		uc.raiseMaintenance(ctx, tr.Maintenance)
	}
	return trip, tr.Maintenance, nil
}

// MarkDelivered closes the trip and starts the next queued one. The second
// trip is nil when nothing was started.
func (uc *tripUC) MarkDelivered(ctx context.Context, driverID, tripID string) (*models.Trip, *models.Trip, error) {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return nil, nil, err
	}

	tr, err := sess.MarkDelivered(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	delivered, err := uc.persist(ctx, sess, tr, models.EventTripDelivered)
	if err != nil {
		return nil, nil, err
	}

	if err := uc.locationRepo.ClearActiveTrip(ctx, driverID); err != nil {
		logger.Warn("Failed to clear cached active trip",
			logger.DriverID(driverID),
			logger.Err(err))
	}

	next, err := uc.activateNext(ctx, sess)
	if err != nil {
		// the delivery itself is durable; the failed activation was rolled
		// back and reported as trip.sync_failed
		logger.Warn("Failed to start next trip after delivery",
			logger.DriverID(driverID),
			logger.TripID(tripID),
			logger.Err(err))
		return delivered, nil, nil
	}
	return delivered, next, nil
}

// persist writes an optimistic transition and settles it. On failure the
// session is rolled back to the previous state and trip.sync_failed is
// emitted.
func (uc *tripUC) persist(ctx context.Context, sess *session.Session, tr *session.Transition, evType models.EventType) (*models.Trip, error) {
	// the write and its settling run even when the caller has gone away
	settleCtx := context.WithoutCancel(ctx)
	next := tr.Next
	err := uc.retrier.Execute(settleCtx, "update trip state", func(ctx context.Context) error {
		return uc.tripRepo.UpdateTripState(ctx, &next)
	})

	driverID := sess.DriverID()

	if err != nil {
		if _, revertErr := sess.Revert(settleCtx, tr.Prev, next.Version); revertErr != nil {
			logger.Error("Failed to roll back trip",
				logger.DriverID(driverID),
				logger.TripID(next.ID),
				logger.Err(revertErr))
		}

		reverted := tr.Prev.Clone()
		reverted.Version = next.Version
		reverted.Sync = models.SyncFailed

		logger.Error("Trip state could not be saved, rolled back",
			logger.DriverID(driverID),
			logger.TripID(next.ID),
			logger.String("status", string(next.Status)),
			logger.String("restored_status", string(reverted.Status)),
			logger.Err(err))
		uc.emit(driverID, next.ID, models.EventTripSyncFailed, models.SyncFailure{
			Trip:  reverted,
			Error: err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", models.ErrSyncFailed, err)
	}

	if ok, confirmErr := sess.Confirm(settleCtx, next.ID, next.Version); confirmErr != nil || !ok {
		logger.Debug("Trip moved on before confirmation",
			logger.DriverID(driverID),
			logger.TripID(next.ID),
			logger.Int("version", next.Version))
	}
	next.Sync = models.SyncConfirmed

	logger.Info("Trip transition saved",
		logger.DriverID(driverID),
		logger.TripID(next.ID),
		logger.String("status", string(next.Status)),
		logger.Int("version", next.Version))
	uc.emit(driverID, next.ID, evType, next)
	return &next, nil
}

// raiseMaintenance queues, records and announces a maintenance request.
// Failures are logged and never undo the inspection.
func (uc *tripUC) raiseMaintenance(ctx context.Context, req *models.MaintenanceRequest) {
	ctx = context.WithoutCancel(ctx)
	fields := []logger.Field{
		logger.DriverID(req.DriverID),
		logger.TripID(req.TripID),
		logger.String("request_id", req.ID),
		logger.String("priority", string(req.Priority)),
	}

	if uc.maintenanceGW != nil {
		if err := uc.maintenanceGW.PublishMaintenanceRequest(ctx, req); err != nil {
			logger.Warn("Failed to queue maintenance request", append(fields, logger.Err(err))...)
		}
	}

	err := uc.retrier.Execute(ctx, "create maintenance request", func(ctx context.Context) error {
		return uc.tripRepo.CreateMaintenanceRequest(ctx, req)
	})
	if err != nil {
		logger.Error("Failed to record maintenance request", append(fields, logger.Err(err))...)
	}

	if req.Priority == models.PriorityUrgent {
		if err := uc.tripRepo.UpdateVehicleStatus(ctx, req.VehicleID, models.VehicleStatusUnderMaintenance); err != nil {
			logger.Error("Failed to flag vehicle for maintenance",
				append(fields, logger.String("vehicle_id", req.VehicleID), logger.Err(err))...)
		}
	}

	logger.Info("Maintenance requested", fields...)
	uc.emit(req.DriverID, req.TripID, models.EventMaintenanceRequested, req)
}
