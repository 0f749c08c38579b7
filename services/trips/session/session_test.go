package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/piresc/fleetnav/internal/pkg/config"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/services/trips/inspection"
	"github.com/piresc/fleetnav/services/trips/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pickup      = models.Coordinate{Latitude: 0, Longitude: 0}
	destination = models.Coordinate{Latitude: 0, Longitude: 0.01}
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type routeFunc func(ctx context.Context, call int, origin models.Coordinate) (*models.RoutePlan, error)

type fakeRouting struct {
	mu      sync.Mutex
	origins []models.Coordinate
	respond routeFunc
}

func (f *fakeRouting) Route(ctx context.Context, origin, dest models.Coordinate, avoidTolls bool) (*models.RoutePlan, error) {
	f.mu.Lock()
	f.origins = append(f.origins, origin)
	call := len(f.origins)
	f.mu.Unlock()
	return f.respond(ctx, call, origin)
}

func (f *fakeRouting) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.origins)
}

type recorder struct {
	ch chan models.Event
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan models.Event, 256)}
}

func (r *recorder) publish(ev models.Event) { r.ch <- ev }

func (r *recorder) waitFor(t *testing.T, typ models.EventType) models.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-r.ch:
			if ev.Type == typ {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", typ)
			return models.Event{}
		}
	}
}

func (r *recorder) drain() []models.Event {
	var out []models.Event
	for {
		select {
		case ev := <-r.ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func count(events []models.Event, typ models.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func linePlan(from models.Coordinate, points ...models.Coordinate) *models.RoutePlan {
	return &models.RoutePlan{
		Polyline:                append([]models.Coordinate{from}, points...),
		TotalDistanceMeters:     1112,
		ExpectedDurationSeconds: 120,
	}
}

func equatorRoute(ctx context.Context, call int, origin models.Coordinate) (*models.RoutePlan, error) {
	if call == 1 {
		return linePlan(pickup, models.Coordinate{Latitude: 0, Longitude: 0.005}, destination), nil
	}
	return linePlan(origin, destination), nil
}

func assignedTrip(id string, minute int) models.Trip {
	return models.Trip{
		ID:          id,
		DriverID:    "driver-1",
		VehicleID:   "vehicle-1",
		Status:      models.TripStatusAssigned,
		Pickup:      models.Place{Description: "Depot", Coordinate: pickup},
		Destination: models.Place{Description: "Warehouse", Coordinate: destination},
		CreatedAt:   time.Date(2024, 5, 1, 7, minute, 0, 0, time.UTC),
		Version:     1,
	}
}

func newSession(t *testing.T, routing *fakeRouting, rec *recorder, clk *clock) *Session {
	t.Helper()
	s := New(Config{
		DriverID:   "driver-1",
		VehicleID:  "vehicle-1",
		Navigation: config.DefaultNavigationConfig(),
		Policy:     lifecycle.IssuePolicyReport,
	}, routing, rec.publish, WithClock(clk.Now))
	t.Cleanup(s.Close)
	return s
}

func sample(lat, lng float64, clk *clock) models.LocationSample {
	return models.LocationSample{Coordinate: models.Coordinate{Latitude: lat, Longitude: lng}, Timestamp: clk.Now()}
}

func startActiveTrip(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Load(ctx, []models.Trip{assignedTrip("t1", 0), assignedTrip("t2", 5)}))
	tr, err := s.ActivateNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, tr)
	ok, err := s.Confirm(ctx, tr.Next.ID, tr.Next.Version)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSession_DeviationFiresOnceAndRecalculates(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clk := newClock()
	rec := newRecorder()
	routing := &fakeRouting{respond: equatorRoute}
	s := newSession(t, routing, rec, clk)
	startActiveTrip(t, s)

	nav, err := s.StartNavigation(ctx)
	require.NoError(t, err)
	assert.True(t, nav.Active)
	assert.Equal(t, "t1", nav.TripID)
	initial := rec.waitFor(t, models.EventRouteReplaced)
	assert.Equal(t, models.RouteReasonInitial, initial.Payload.(models.RouteReplaced).Reason)

	// Act: three samples exactly on the route
	for _, lng := range []float64{0.001, 0.002, 0.003} {
		clk.Advance(10 * time.Second)
		require.NoError(t, s.IngestLocation(ctx, sample(0, lng, clk)))
	}

	// Assert
	assert.Zero(t, count(rec.drain(), models.EventRouteDeviated))
	snap := s.Snapshot()
	assert.True(t, snap.Navigation.RouteValid)
	assert.InDelta(t, 778.4, snap.Navigation.RemainingDistanceMeters, 1.0)

	// Act: one sample 80m off the route
	clk.Advance(10 * time.Second)
	require.NoError(t, s.IngestLocation(ctx, sample(0.00072, 0.004, clk)))

	// Assert
	events := rec.drain()
	require.Equal(t, 1, count(events, models.EventRouteDeviated))
	for _, ev := range events {
		if ev.Type == models.EventRouteDeviated {
			assert.Equal(t, "driver-1", ev.DriverID)
			assert.Equal(t, "t1", ev.TripID)
		}
	}

	replaced := rec.waitFor(t, models.EventRouteReplaced)
	assert.Equal(t, models.RouteReasonDeviation, replaced.Payload.(models.RouteReplaced).Reason)
	assert.Equal(t, 2, routing.Calls())
	assert.Eventually(t, func() bool {
		n := s.Snapshot().Navigation
		return n.RouteValid && !n.Deviated && !n.Recalculating
	}, time.Second, 10*time.Millisecond)
}

func TestSession_RecalculationIsThrottled(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	rec := newRecorder()
	routing := &fakeRouting{respond: func(ctx context.Context, call int, origin models.Coordinate) (*models.RoutePlan, error) {
		if call == 1 {
			return equatorRoute(ctx, call, origin)
		}
		return nil, models.ErrNoRouteFound
	}}
	s := newSession(t, routing, rec, clk)
	startActiveTrip(t, s)
	_, err := s.StartNavigation(ctx)
	require.NoError(t, err)
	rec.waitFor(t, models.EventRouteReplaced)

	// deviating inside the throttle window does not call routing
	clk.Advance(5 * time.Second)
	require.NoError(t, s.IngestLocation(ctx, sample(0.001, 0.004, clk)))
	assert.Equal(t, 1, routing.Calls())

	// once the window has passed a deviated sample retries, and the failure
	// leaves the deviation in place
	clk.Advance(20 * time.Second)
	require.NoError(t, s.IngestLocation(ctx, sample(0.001, 0.005, clk)))
	assert.Eventually(t, func() bool {
		return routing.Calls() == 2 && !s.Snapshot().Navigation.Recalculating
	}, time.Second, 10*time.Millisecond)
	assert.True(t, s.Snapshot().Navigation.Deviated)

	// a manual retry ignores the throttle
	require.NoError(t, s.Recalculate(ctx))
	assert.Eventually(t, func() bool { return routing.Calls() == 3 }, time.Second, 10*time.Millisecond)
}

func TestSession_StaleRouteIsDiscarded(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clk := newClock()
	rec := newRecorder()
	release := make(chan struct{})
	routing := &fakeRouting{respond: func(ctx context.Context, call int, origin models.Coordinate) (*models.RoutePlan, error) {
		if call == 1 {
			<-release
			return linePlan(pickup, models.Coordinate{Latitude: 0, Longitude: 0.005}, destination), nil
		}
		return linePlan(pickup, destination), nil
	}}
	s := newSession(t, routing, rec, clk)
	startActiveTrip(t, s)

	// Act: first request hangs, navigation restarts with a new token
	_, err := s.StartNavigation(ctx)
	require.NoError(t, err)
	token := s.Snapshot().Token
	require.NoError(t, s.StopNavigation(ctx))
	_, err = s.StartNavigation(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, token, s.Snapshot().Token)
	rec.waitFor(t, models.EventRouteReplaced)
	close(release)

	// Assert
	assert.Never(t, func() bool {
		for _, ev := range rec.drain() {
			if ev.Type == models.EventRouteReplaced {
				return true
			}
		}
		return false
	}, 200*time.Millisecond, 20*time.Millisecond)
	route := s.Snapshot().Navigation.Route
	require.NotNil(t, route)
	assert.Len(t, route.Polyline, 2)
}

func TestSession_StopCancelsInFlightRequest(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	rec := newRecorder()
	cancelled := make(chan struct{})
	routing := &fakeRouting{respond: func(ctx context.Context, call int, origin models.Coordinate) (*models.RoutePlan, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	}}
	s := newSession(t, routing, rec, clk)
	startActiveTrip(t, s)
	_, err := s.StartNavigation(ctx)
	require.NoError(t, err)
	assert.True(t, s.Snapshot().Navigation.Recalculating)

	require.NoError(t, s.StopNavigation(ctx))

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("routing request was not cancelled")
	}
	nav := s.Snapshot().Navigation
	assert.False(t, nav.Active)
	assert.False(t, nav.Recalculating)
	assert.False(t, nav.HasRoute)

	// samples are still recorded but no longer tracked
	require.NoError(t, s.IngestLocation(ctx, sample(0.01, 0.01, clk)))
	assert.Empty(t, rec.drain())
	assert.Equal(t, 0.01, s.Snapshot().Navigation.LastLocation.Latitude)
}

func TestSession_GeofenceEvents(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	rec := newRecorder()
	s := newSession(t, &fakeRouting{respond: equatorRoute}, rec, clk)
	startActiveTrip(t, s)
	_, err := s.StartNavigation(ctx)
	require.NoError(t, err)
	rec.waitFor(t, models.EventRouteReplaced)

	for _, lng := range []float64{0.0001, 0.0002, 0.002} {
		clk.Advance(10 * time.Second)
		require.NoError(t, s.IngestLocation(ctx, sample(0, lng, clk)))
	}

	var fences []models.EventType
	for _, ev := range rec.drain() {
		if ev.Type == models.EventGeofenceEntered || ev.Type == models.EventGeofenceExited {
			assert.Equal(t, models.GeofencePickup, ev.Payload.(models.GeofenceCrossing).Fence.Name)
			fences = append(fences, ev.Type)
		}
	}
	assert.Equal(t, []models.EventType{models.EventGeofenceEntered, models.EventGeofenceExited}, fences)
}

func TestSession_StartNavigationRequiresActiveTrip(t *testing.T) {
	s := newSession(t, &fakeRouting{respond: equatorRoute}, newRecorder(), newClock())

	_, err := s.StartNavigation(context.Background())

	assert.ErrorIs(t, err, models.ErrNoActiveTrip)
	assert.ErrorIs(t, s.Recalculate(context.Background()), models.ErrNoActiveRoute)
}

func TestSession_RevertedActivationIsRequeued(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, &fakeRouting{respond: equatorRoute}, newRecorder(), newClock())
	require.NoError(t, s.Load(ctx, []models.Trip{assignedTrip("t1", 0), assignedTrip("t2", 5)}))

	tr, err := s.ActivateNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, models.TripStatusAssigned, tr.Prev.Status)
	assert.Equal(t, models.TripStatusInProgress, tr.Next.Status)
	assert.Equal(t, models.SyncPending, s.Snapshot().Active.Sync)

	ok, err := s.Revert(ctx, tr.Prev, tr.Next.Version)
	require.NoError(t, err)
	require.True(t, ok)

	snap := s.Snapshot()
	assert.Nil(t, snap.Active)
	require.Len(t, snap.Queue, 2)
	assert.Equal(t, "t1", snap.Queue[0].ID)
	assert.Equal(t, models.SyncFailed, snap.Queue[0].Sync)
}

func TestSession_FullTripThenNextActivates(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, &fakeRouting{respond: equatorRoute}, newRecorder(), newClock())
	startActiveTrip(t, s)

	confirm := func(tr *Transition) {
		t.Helper()
		ok, err := s.Confirm(ctx, tr.Next.ID, tr.Next.Version)
		require.NoError(t, err)
		require.True(t, ok)
	}
	checked := func(kind models.InspectionKind) *inspection.Checklist {
		c := inspection.NewChecklist(kind)
		for _, it := range c.Items() {
			require.NoError(t, c.ToggleChecked(it.ID))
		}
		return c
	}

	_, err := s.MarkDelivered(ctx, "t1")
	assert.ErrorIs(t, err, models.ErrPreconditionNotMet)

	tr, err := s.CompletePreTrip(ctx, "t1", checked(models.InspectionPreTrip))
	require.NoError(t, err)
	confirm(tr)
	tr, err = s.CompletePostTrip(ctx, "t1", checked(models.InspectionPostTrip))
	require.NoError(t, err)
	confirm(tr)
	tr, err = s.MarkDelivered(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TripStatusDelivered, tr.Next.Status)

	// the pending delivery holds the slot
	next, err := s.ActivateNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)

	confirm(tr)
	next, err = s.ActivateNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "t2", next.Next.ID)

	_, err = s.CompletePreTrip(ctx, "t1", checked(models.InspectionPreTrip))
	assert.ErrorIs(t, err, models.ErrTripNotFound)
}

func inspectedAndNavigating(t *testing.T, s *Session, rec *recorder) {
	t.Helper()
	ctx := context.Background()
	startActiveTrip(t, s)
	_, err := s.StartNavigation(ctx)
	require.NoError(t, err)
	rec.waitFor(t, models.EventRouteReplaced)

	for _, kind := range []models.InspectionKind{models.InspectionPreTrip, models.InspectionPostTrip} {
		c := inspection.NewChecklist(kind)
		for _, it := range c.Items() {
			require.NoError(t, c.ToggleChecked(it.ID))
		}
		complete := s.CompletePreTrip
		if kind == models.InspectionPostTrip {
			complete = s.CompletePostTrip
		}
		tr, err := complete(ctx, "t1", c)
		require.NoError(t, err)
		ok, err := s.Confirm(ctx, tr.Next.ID, tr.Next.Version)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestSession_RevertedDeliveryKeepsNavigating(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clk := newClock()
	rec := newRecorder()
	s := newSession(t, &fakeRouting{respond: equatorRoute}, rec, clk)
	inspectedAndNavigating(t, s, rec)

	// Act
	tr, err := s.MarkDelivered(ctx, "t1")
	require.NoError(t, err)
	ok, err := s.Revert(ctx, tr.Prev, tr.Next.Version)

	// Assert
	require.NoError(t, err)
	require.True(t, ok)
	snap := s.Snapshot()
	require.NotNil(t, snap.Active)
	assert.Equal(t, models.TripStatusInProgress, snap.Active.Status)
	assert.Equal(t, models.SyncFailed, snap.Active.Sync)
	assert.True(t, snap.Navigation.Active)
	assert.True(t, snap.Navigation.HasRoute)
	assert.Equal(t, "t1", snap.Navigation.TripID)

	// deviation tracking still runs for the restored trip
	rec.drain()
	require.NoError(t, s.IngestLocation(ctx, sample(0.001, 0.002, clk)))
	assert.Equal(t, 1, count(rec.drain(), models.EventRouteDeviated))
}

func TestSession_ConfirmedDeliveryStopsNavigation(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder()
	s := newSession(t, &fakeRouting{respond: equatorRoute}, rec, newClock())
	inspectedAndNavigating(t, s, rec)

	tr, err := s.MarkDelivered(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, s.Snapshot().Navigation.Active)

	ok, err := s.Confirm(ctx, tr.Next.ID, tr.Next.Version)
	require.NoError(t, err)
	require.True(t, ok)

	nav := s.Snapshot().Navigation
	assert.False(t, nav.Active)
	assert.False(t, nav.HasRoute)
	assert.Empty(t, nav.TripID)
}

func TestSession_RecalculateWhileInFlight(t *testing.T) {
	// Arrange
	ctx := context.Background()
	release := make(chan struct{})
	routing := &fakeRouting{respond: func(ctx context.Context, call int, origin models.Coordinate) (*models.RoutePlan, error) {
		<-release
		return equatorRoute(ctx, call, origin)
	}}
	rec := newRecorder()
	s := newSession(t, routing, rec, newClock())
	startActiveTrip(t, s)
	_, err := s.StartNavigation(ctx)
	require.NoError(t, err)

	// Act
	err = s.Recalculate(ctx)

	// Assert
	assert.ErrorIs(t, err, models.ErrRecalculating)
	assert.True(t, s.Snapshot().Navigation.Recalculating)

	close(release)
	rec.waitFor(t, models.EventRouteReplaced)
	require.NoError(t, s.Recalculate(ctx))
	assert.Eventually(t, func() bool { return routing.Calls() == 2 }, time.Second, 10*time.Millisecond)
}

func TestSession_BlockedPreTripCarriesMaintenance(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := New(Config{
		DriverID:   "driver-1",
		Navigation: config.DefaultNavigationConfig(),
		Policy:     lifecycle.IssuePolicyBlock,
	}, nil, nil, WithClock(clk.Now))
	defer s.Close()
	require.NoError(t, s.Load(ctx, []models.Trip{assignedTrip("t1", 0)}))

	c := inspection.NewChecklist(models.InspectionPreTrip)
	for _, it := range c.Items() {
		require.NoError(t, c.ToggleChecked(it.ID))
	}
	require.NoError(t, c.ToggleIssue("brakes"))
	require.NoError(t, c.SetNotes("brakes", "grinding"))

	tr, err := s.CompletePreTrip(ctx, "t1", c)

	assert.ErrorIs(t, err, models.ErrPreconditionNotMet)
	require.NotNil(t, tr)
	require.NotNil(t, tr.Maintenance)
	assert.Equal(t, models.PriorityUrgent, tr.Maintenance.Priority)
	assert.Equal(t, tr.Prev, tr.Next)
}

func TestSession_EnqueueAndDecline(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, &fakeRouting{respond: equatorRoute}, newRecorder(), newClock())

	require.NoError(t, s.Enqueue(ctx, assignedTrip("t1", 0)))
	assert.ErrorIs(t, s.Enqueue(ctx, assignedTrip("t1", 0)), models.ErrDuplicateTrip)

	declined, err := s.Decline(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", declined.ID)

	_, err = s.Decline(ctx, "t1")
	assert.ErrorIs(t, err, models.ErrNotQueued)
}

func TestSession_Consume(t *testing.T) {
	clk := newClock()
	s := newSession(t, &fakeRouting{respond: equatorRoute}, newRecorder(), clk)
	samples := make(chan models.LocationSample, 3)
	samples <- sample(1, 1, clk)
	samples <- sample(95, 1, clk)
	samples <- sample(2, 2, clk)
	close(samples)

	err := s.Consume(context.Background(), samples)

	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Snapshot().Navigation.LastLocation.Latitude)
}

func TestSession_ConsumeStopsOnContext(t *testing.T) {
	s := newSession(t, &fakeRouting{respond: equatorRoute}, newRecorder(), newClock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Consume(ctx, make(chan models.LocationSample))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_ClosedSessionRejectsCommands(t *testing.T) {
	s := New(Config{DriverID: "driver-1", Navigation: config.DefaultNavigationConfig()}, nil, nil)
	s.Close()
	s.Close()

	err := s.Enqueue(context.Background(), assignedTrip("t1", 0))

	assert.True(t, errors.Is(err, models.ErrSessionClosed))
	assert.ErrorIs(t, s.IngestLocation(context.Background(), models.LocationSample{Coordinate: models.Coordinate{Latitude: 100}}), models.ErrInvalidLocation)
}

func TestSession_ConcurrentReadsSeeWholeSnapshots(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	s := newSession(t, &fakeRouting{respond: equatorRoute}, newRecorder(), clk)
	require.NoError(t, s.Load(ctx, []models.Trip{assignedTrip("t1", 0), assignedTrip("t2", 1), assignedTrip("t3", 2)}))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				snap := s.Snapshot()
				queued := len(snap.Queue)
				if snap.Active != nil {
					queued++
				}
				assert.Equal(t, 3, queued)
			}
		}
	}()

	for i := 0; i < 50; i++ {
		require.NoError(t, s.IngestLocation(ctx, sample(0, float64(i)*0.0001, clk)))
	}
	tr, err := s.ActivateNext(ctx)
	require.NoError(t, err)
	_, err = s.Revert(ctx, tr.Prev, tr.Next.Version)
	require.NoError(t, err)

	close(stop)
	wg.Wait()
}
