package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/services/trips"
	"github.com/piresc/fleetnav/services/trips/inspection"
	"github.com/piresc/fleetnav/services/trips/lifecycle"
	"github.com/piresc/fleetnav/services/trips/navigation"
	"github.com/piresc/fleetnav/services/trips/queue"
	"go.uber.org/zap"
)

const defaultInboxSize = 64

// Publisher receives every event a session raises. It runs on the session
// goroutine and must not block.
type Publisher func(models.Event)

// Config configures one driver session
type Config struct {
	DriverID   string
	VehicleID  string
	Navigation models.NavigationConfig
	Policy     lifecycle.IssuePolicy
	AvoidTolls bool
	InboxSize  int
}

// Transition is the outcome of an optimistic lifecycle transition. Next is
// pending until the caller confirms or reverts it.
type Transition struct {
	Prev        models.Trip
	Next        models.Trip
	Maintenance *models.MaintenanceRequest
}

// Option customizes a session
type Option func(*Session)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

type command struct {
	fn   func()
	done chan struct{}
}

// Session serializes every mutation of one driver's trips and navigation on
// a single goroutine. Reads go through an atomically swapped snapshot.
type Session struct {
	cfg     Config
	routing trips.RoutingGW
	publish Publisher
	log     *zap.Logger
	now     func() time.Time

	inbox     chan command
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	snapshot  atomic.Pointer[models.SessionSnapshot]

	// owned by the run goroutine
	scheduler     *queue.Scheduler
	tracker       *navigation.Tracker
	geofences     *navigation.GeofenceMonitor
	sinks         []navigation.LocationSink
	lastSample    *models.LocationSample
	navigating    bool
	navTripID     string
	navToken      string
	navCtx        context.Context
	navCancel     context.CancelFunc
	recalculating bool
	lastRecalc    time.Time
}

// New starts a session goroutine. Close must be called to stop it.
func New(cfg Config, routing trips.RoutingGW, publish Publisher, opts ...Option) *Session {
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = defaultInboxSize
	}
	s := &Session{
		cfg:       cfg,
		routing:   routing,
		publish:   publish,
		log:       logger.WithDriver(cfg.DriverID),
		now:       models.Now,
		inbox:     make(chan command, cfg.InboxSize),
		quit:      make(chan struct{}),
		stopped:   make(chan struct{}),
		scheduler: queue.New(),
		tracker:   navigation.NewTracker(cfg.Navigation),
		geofences: navigation.NewGeofenceMonitor(),
	}
	s.sinks = []navigation.LocationSink{s.tracker, s.geofences}
	for _, opt := range opts {
		opt(s)
	}
	s.refresh()
	go s.run()
	return s
}

// DriverID returns the driver the session belongs to
func (s *Session) DriverID() string { return s.cfg.DriverID }

// VehicleID returns the vehicle the driver signed in with
func (s *Session) VehicleID() string { return s.cfg.VehicleID }

func (s *Session) run() {
	defer close(s.stopped)
	for {
		select {
		case cmd := <-s.inbox:
			cmd.fn()
			s.refresh()
			if cmd.done != nil {
				close(cmd.done)
			}
		case <-s.quit:
			s.stopNavigation()
			return
		}
	}
}

// do runs fn on the session goroutine and waits for it. Once accepted the
// command always completes, so the caller observes its effect even if ctx
// ends meanwhile.
func (s *Session) do(ctx context.Context, fn func()) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case s.inbox <- cmd:
	case <-s.quit:
		return models.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-s.stopped:
		select {
		case <-cmd.done:
			return nil
		default:
			return models.ErrSessionClosed
		}
	}
}

// submit queues fn without waiting. Used by background work reporting back.
func (s *Session) submit(fn func()) {
	select {
	case s.inbox <- command{fn: fn}:
	case <-s.quit:
	}
}

// Close stops the session goroutine and cancels in-flight routing
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.stopped
}

// Snapshot returns the state as of the last processed command
func (s *Session) Snapshot() models.SessionSnapshot {
	return *s.snapshot.Load()
}

func (s *Session) refresh() {
	active, queued := s.scheduler.Snapshot()
	nav := s.tracker.Snapshot()
	nav.Active = s.navigating
	nav.TripID = s.navTripID
	nav.Recalculating = s.recalculating
	if s.lastSample != nil {
		last := *s.lastSample
		nav.LastLocation = &last
	}
	s.snapshot.Store(&models.SessionSnapshot{
		DriverID:   s.cfg.DriverID,
		Token:      s.navToken,
		Active:     active,
		Queue:      queued,
		Navigation: nav,
		UpdatedAt:  s.now(),
	})
}

func (s *Session) emit(tripID string, typ models.EventType, payload interface{}) {
	if s.publish == nil {
		return
	}
	s.publish(models.Event{
		Type:      typ,
		DriverID:  s.cfg.DriverID,
		TripID:    tripID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

// Load replaces the queue with trips read from storage
func (s *Session) Load(ctx context.Context, trips []models.Trip) error {
	return s.do(ctx, func() {
		s.stopNavigation()
		s.scheduler.Load(trips, s.cfg.Policy)
	})
}

// SeedLocation sets the last known location without feeding navigation
func (s *Session) SeedLocation(ctx context.Context, sample models.LocationSample) error {
	if !sample.Valid() {
		return models.ErrInvalidLocation
	}
	return s.do(ctx, func() {
		if s.lastSample == nil {
			s.lastSample = &sample
		}
	})
}

// Enqueue adds a newly assigned trip to the back of the queue
func (s *Session) Enqueue(ctx context.Context, trip models.Trip) error {
	var err error
	if doErr := s.do(ctx, func() {
		err = s.scheduler.Enqueue(lifecycle.New(trip, s.cfg.Policy))
	}); doErr != nil {
		return doErr
	}
	return err
}

// ActivateNext starts the head of the queue. A nil transition means nothing
// was started.
func (s *Session) ActivateNext(ctx context.Context) (*Transition, error) {
	var (
		tr  *Transition
		err error
	)
	doErr := s.do(ctx, func() {
		var prev models.Trip
		if head := s.scheduler.Peek(); head != nil {
			prev = head.Trip()
		}
		var next *lifecycle.Lifecycle
		next, err = s.scheduler.ActivateNext()
		if err != nil || next == nil {
			return
		}
		tr = &Transition{Prev: prev, Next: next.Trip()}
	})
	if doErr != nil {
		return nil, doErr
	}
	return tr, err
}

// Decline removes a queued trip
func (s *Session) Decline(ctx context.Context, tripID string) (models.Trip, error) {
	var (
		trip models.Trip
		err  error
	)
	doErr := s.do(ctx, func() {
		var l *lifecycle.Lifecycle
		l, err = s.scheduler.Decline(tripID)
		if err == nil {
			trip = l.Trip()
		}
	})
	if doErr != nil {
		return models.Trip{}, doErr
	}
	return trip, err
}

func (s *Session) transition(ctx context.Context, tripID string, apply func(*lifecycle.Lifecycle) (*models.MaintenanceRequest, error)) (*Transition, error) {
	var (
		tr  *Transition
		err error
	)
	doErr := s.do(ctx, func() {
		l := s.scheduler.Find(tripID)
		if l == nil {
			err = fmt.Errorf("%w: %s", models.ErrTripNotFound, tripID)
			return
		}
		prev := l.Trip()
		var req *models.MaintenanceRequest
		req, err = apply(l)
		if err != nil {
			if req != nil {
				tr = &Transition{Prev: prev, Next: prev, Maintenance: req}
			}
			return
		}
		tr = &Transition{Prev: prev, Next: l.Trip(), Maintenance: req}
	})
	if doErr != nil {
		return nil, doErr
	}
	return tr, err
}

// CompletePreTrip applies a pre-trip checklist to the trip. Under the block
// policy a refused transition still carries the maintenance request.
func (s *Session) CompletePreTrip(ctx context.Context, tripID string, cl *inspection.Checklist) (*Transition, error) {
	return s.transition(ctx, tripID, func(l *lifecycle.Lifecycle) (*models.MaintenanceRequest, error) {
		return l.CompletePreTrip(cl)
	})
}

// CompletePostTrip applies a post-trip checklist to the trip
func (s *Session) CompletePostTrip(ctx context.Context, tripID string, cl *inspection.Checklist) (*Transition, error) {
	return s.transition(ctx, tripID, func(l *lifecycle.Lifecycle) (*models.MaintenanceRequest, error) {
		return l.CompletePostTrip(cl)
	})
}

// MarkDelivered closes the trip. Navigation for it ends once the delivery
// is confirmed.
func (s *Session) MarkDelivered(ctx context.Context, tripID string) (*Transition, error) {
	return s.transition(ctx, tripID, func(l *lifecycle.Lifecycle) (*models.MaintenanceRequest, error) {
		return nil, l.MarkDelivered()
	})
}

// Confirm marks a transition durable. It reports false when the trip is
// gone or has moved on.
func (s *Session) Confirm(ctx context.Context, tripID string, version int) (bool, error) {
	var ok bool
	err := s.do(ctx, func() {
		l := s.scheduler.Find(tripID)
		if l == nil {
			return
		}
		ok = l.Confirm(version)
		if ok && l.Status() == models.TripStatusDelivered && s.navigating && s.navTripID == tripID {
			s.stopNavigation()
		}
	})
	return ok, err
}

// Revert rolls a trip back to prev after its write of failedVersion failed.
// A rolled back activation returns to the head of the queue.
func (s *Session) Revert(ctx context.Context, prev models.Trip, failedVersion int) (bool, error) {
	var ok bool
	err := s.do(ctx, func() {
		l := s.scheduler.Find(prev.ID)
		if l == nil || !l.Revert(prev, failedVersion) {
			return
		}
		ok = true
		if l == s.scheduler.Active() && l.Status() == models.TripStatusAssigned {
			if s.navigating && s.navTripID == l.ID() {
				s.stopNavigation()
			}
			s.scheduler.Requeue(l)
		}
	})
	return ok, err
}

// IngestLocation feeds one sample to every location sink. Route
// recalculation it triggers runs in the background.
func (s *Session) IngestLocation(ctx context.Context, sample models.LocationSample) error {
	if !sample.Valid() {
		return models.ErrInvalidLocation
	}
	return s.do(ctx, func() { s.ingest(sample) })
}

// Consume pumps a location source into the session until ctx ends or the
// channel closes
func (s *Session) Consume(ctx context.Context, samples <-chan models.LocationSample) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sample, ok := <-samples:
			if !ok {
				return nil
			}
			if err := s.IngestLocation(ctx, sample); err != nil {
				if errors.Is(err, models.ErrInvalidLocation) {
					s.log.Debug("Dropping invalid location sample",
						logger.Float64("latitude", sample.Latitude),
						logger.Float64("longitude", sample.Longitude))
					continue
				}
				return err
			}
		}
	}
}

func (s *Session) ingest(sample models.LocationSample) {
	s.lastSample = &sample
	if !s.navigating {
		return
	}
	for _, sink := range s.sinks {
		for _, sig := range sink.Ingest(sample) {
			s.emit(s.navTripID, sig.Type, sig.Payload)
		}
	}
	switch {
	case s.tracker.Deviated():
		s.requestRoute(models.RouteReasonDeviation, false)
	case !s.tracker.HasRoute():
		// the initial request failed
		s.requestRoute(models.RouteReasonInitial, false)
	}
}

// StartNavigation begins route tracking for the active trip. The initial
// route is fetched in the background.
func (s *Session) StartNavigation(ctx context.Context) (models.NavigationSnapshot, error) {
	var err error
	doErr := s.do(ctx, func() {
		active := s.scheduler.Active()
		if active == nil || active.Status() != models.TripStatusInProgress {
			err = models.ErrNoActiveTrip
			return
		}
		s.stopNavigation()

		trip := active.Trip()
		s.navigating = true
		s.navTripID = trip.ID
		s.navToken = uuid.NewString()
		s.navCtx, s.navCancel = context.WithCancel(context.Background())
		s.geofences.Reset(navigation.TripGeofences(trip, s.cfg.Navigation)...)
		s.lastRecalc = time.Time{}
		s.requestRoute(models.RouteReasonInitial, true)
	})
	if doErr != nil {
		return models.NavigationSnapshot{}, doErr
	}
	if err != nil {
		return models.NavigationSnapshot{}, err
	}
	return s.Snapshot().Navigation, nil
}

// StopNavigation cancels in-flight routing and stops feeding the tracker
func (s *Session) StopNavigation(ctx context.Context) error {
	return s.do(ctx, s.stopNavigation)
}

// Recalculate requests a new route now, bypassing the throttle. It fails
// with ErrRecalculating while another request is in flight.
func (s *Session) Recalculate(ctx context.Context) error {
	var err error
	if doErr := s.do(ctx, func() {
		if !s.navigating {
			err = models.ErrNoActiveRoute
			return
		}
		if s.recalculating {
			err = models.ErrRecalculating
			return
		}
		s.requestRoute(models.RouteReasonManual, true)
	}); doErr != nil {
		return doErr
	}
	return err
}

func (s *Session) stopNavigation() {
	if s.navCancel != nil {
		s.navCancel()
		s.navCancel = nil
	}
	s.navigating = false
	s.navTripID = ""
	s.navToken = ""
	s.recalculating = false
	s.tracker.ClearRoute()
	s.geofences.Reset()
}

// requestRoute starts a background routing call tagged with the current
// navigation token. At most one call is in flight and unforced calls are
// throttled by RecalcMinInterval.
func (s *Session) requestRoute(reason string, force bool) {
	if !s.navigating || s.recalculating || s.routing == nil {
		return
	}
	now := s.now()
	if !force && !s.lastRecalc.IsZero() && now.Sub(s.lastRecalc) < s.cfg.Navigation.RecalcMinInterval {
		return
	}
	l := s.scheduler.Find(s.navTripID)
	if l == nil {
		return
	}
	trip := l.Trip()
	origin := trip.Pickup.Coordinate
	if s.lastSample != nil {
		origin = s.lastSample.Coordinate
	}
	destination := trip.Destination.Coordinate

	s.recalculating = true
	s.lastRecalc = now
	token := s.navToken

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout := s.cfg.Navigation.RecalcTimeout; timeout > 0 {
		ctx, cancel = context.WithTimeout(s.navCtx, timeout)
	} else {
		ctx, cancel = context.WithCancel(s.navCtx)
	}
	go func() {
		defer cancel()
		plan, err := s.routing.Route(ctx, origin, destination, s.cfg.AvoidTolls)
		s.submit(func() { s.applyRoute(token, reason, plan, err) })
	}()
}

func (s *Session) applyRoute(token, reason string, plan *models.RoutePlan, err error) {
	if token != s.navToken {
		s.log.Debug("Discarding stale route", logger.String("reason", reason))
		return
	}
	s.recalculating = false
	if err == nil && plan == nil {
		err = models.ErrNoRouteFound
	}
	if err != nil {
		s.log.Warn("Route request failed",
			logger.TripID(s.navTripID),
			logger.String("reason", reason),
			logger.Err(err))
		return
	}
	if err := s.tracker.ReplaceRoute(*plan); err != nil {
		s.log.Warn("Routing returned an unusable route",
			logger.TripID(s.navTripID),
			logger.Int("points", len(plan.Polyline)),
			logger.Err(err))
		return
	}
	s.emit(s.navTripID, models.EventRouteReplaced, models.RouteReplaced{
		Reason:                  reason,
		TotalDistanceMeters:     plan.TotalDistanceMeters,
		ExpectedDurationSeconds: plan.ExpectedDurationSeconds,
		Points:                  len(plan.Polyline),
	})
}
