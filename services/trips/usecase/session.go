package usecase

import (
	"context"
	"fmt"

	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/services/trips/session"
)

// OpenSession starts the driver's session, loading open trips from storage.
// Opening an already open session returns its current state.
func (uc *tripUC) OpenSession(ctx context.Context, driverID, vehicleID string) (models.SessionSnapshot, error) {
	if sess, ok := uc.session(driverID); ok {
		return sess.Snapshot(), nil
	}

	var driverTrips []models.Trip
	err := uc.retrier.Execute(ctx, "get driver trips", func(ctx context.Context) error {
		var err error
		driverTrips, err = uc.tripRepo.GetDriverTrips(ctx, driverID)
		return err
	})
	if err != nil {
		return models.SessionSnapshot{}, fmt.Errorf("failed to load driver trips: %w", err)
	}

	sess := session.New(session.Config{
		DriverID:   driverID,
		VehicleID:  vehicleID,
		Navigation: uc.cfg.Navigation,
		Policy:     uc.policy,
		AvoidTolls: uc.cfg.Routing.AvoidTolls,
	}, uc.routingGW, uc.publish)

	if err := sess.Load(ctx, driverTrips); err != nil {
		sess.Close()
		return models.SessionSnapshot{}, err
	}

	last, err := uc.locationRepo.LastLocation(ctx, driverID)
	if err != nil {
		logger.Warn("Failed to read last known location",
			logger.DriverID(driverID),
			logger.Err(err))
	}
	if last != nil {
		if err := sess.SeedLocation(ctx, *last); err != nil {
			logger.Debug("Ignoring cached location",
				logger.DriverID(driverID),
				logger.Err(err))
		}
	}

	uc.mu.Lock()
	if existing, ok := uc.sessions[driverID]; ok {
		uc.mu.Unlock()
		sess.Close()
		return existing.Snapshot(), nil
	}
	uc.sessions[driverID] = sess
	uc.mu.Unlock()

	snap := sess.Snapshot()
	if snap.Active != nil {
		uc.cacheActiveTrip(ctx, driverID, snap.Active.ID)
	}

	logger.Info("Driver session opened",
		logger.DriverID(driverID),
		logger.String("vehicle_id", vehicleID),
		logger.Int("queued_trips", len(snap.Queue)),
		logger.Bool("has_active_trip", snap.Active != nil))
	return snap, nil
}

// CloseSession stops the driver's session and drops the cached position
func (uc *tripUC) CloseSession(ctx context.Context, driverID string) error {
	uc.mu.Lock()
	sess, ok := uc.sessions[driverID]
	delete(uc.sessions, driverID)
	uc.mu.Unlock()
	if !ok {
		return models.ErrSessionNotFound
	}

	sess.Close()
	uc.closeSubscribers(driverID)

	if err := uc.locationRepo.RemoveDriver(ctx, driverID); err != nil {
		logger.Warn("Failed to remove cached driver location",
			logger.DriverID(driverID),
			logger.Err(err))
	}

	logger.Info("Driver session closed", logger.DriverID(driverID))
	return nil
}

// Snapshot returns the driver's current session state
func (uc *tripUC) Snapshot(driverID string) (models.SessionSnapshot, error) {
	sess, err := uc.mustSession(driverID)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Subscribe returns a stream of the driver's events and a function that
// ends the subscription. The stream closes when the session closes.
func (uc *tripUC) Subscribe(driverID string) (<-chan models.Event, func()) {
	ch := make(chan models.Event, subscriberBuffer)

	uc.subMu.Lock()
	uc.nextSubID++
	id := uc.nextSubID
	if uc.subscribers[driverID] == nil {
		uc.subscribers[driverID] = make(map[uint64]chan models.Event)
	}
	uc.subscribers[driverID][id] = ch
	uc.subMu.Unlock()

	return ch, func() {
		uc.subMu.Lock()
		defer uc.subMu.Unlock()
		if subs, ok := uc.subscribers[driverID]; ok {
			if c, ok := subs[id]; ok {
				delete(subs, id)
				close(c)
			}
			if len(subs) == 0 {
				delete(uc.subscribers, driverID)
			}
		}
	}
}

// Shutdown closes every open session
func (uc *tripUC) Shutdown(ctx context.Context) {
	uc.mu.Lock()
	sessions := uc.sessions
	uc.sessions = make(map[string]*session.Session)
	uc.mu.Unlock()

	for driverID, sess := range sessions {
		if ctx.Err() != nil {
			logger.Warn("Shutdown deadline reached, abandoning sessions",
				logger.Int("remaining", len(sessions)))
			return
		}
		sess.Close()
		uc.closeSubscribers(driverID)
	}
	logger.Info("All driver sessions closed", logger.Int("count", len(sessions)))
}

// publish fans an event out to local subscribers and the event bus. It runs
// on session goroutines and never blocks.
func (uc *tripUC) publish(ev models.Event) {
	uc.subMu.RLock()
	for _, ch := range uc.subscribers[ev.DriverID] {
		select {
		case ch <- ev:
		default:
			logger.Debug("Dropping event for slow subscriber",
				logger.DriverID(ev.DriverID),
				logger.String("event", string(ev.Type)))
		}
	}
	uc.subMu.RUnlock()

	if uc.eventGW == nil {
		return
	}
	if err := uc.eventGW.PublishEvent(context.Background(), ev); err != nil {
		logger.Warn("Failed to publish event",
			logger.DriverID(ev.DriverID),
			logger.TripID(ev.TripID),
			logger.String("event", string(ev.Type)),
			logger.Err(err))
	}
}

func (uc *tripUC) emit(driverID, tripID string, typ models.EventType, payload interface{}) {
	uc.publish(models.Event{
		Type:      typ,
		DriverID:  driverID,
		TripID:    tripID,
		Timestamp: models.Now(),
		Payload:   payload,
	})
}

func (uc *tripUC) closeSubscribers(driverID string) {
	uc.subMu.Lock()
	defer uc.subMu.Unlock()
	for _, ch := range uc.subscribers[driverID] {
		close(ch)
	}
	delete(uc.subscribers, driverID)
}

func (uc *tripUC) session(driverID string) (*session.Session, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	sess, ok := uc.sessions[driverID]
	return sess, ok
}

func (uc *tripUC) mustSession(driverID string) (*session.Session, error) {
	sess, ok := uc.session(driverID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, driverID)
	}
	return sess, nil
}

func (uc *tripUC) cacheActiveTrip(ctx context.Context, driverID, tripID string) {
	if err := uc.locationRepo.SetActiveTrip(ctx, driverID, tripID); err != nil {
		logger.Warn("Failed to cache active trip",
			logger.DriverID(driverID),
			logger.TripID(tripID),
			logger.Err(err))
	}
}
