package navigation

import (
	"time"

	"github.com/piresc/fleetnav/internal/pkg/geo"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

type speedSample struct {
	at  time.Time
	mps float64
}

// Tracker matches location samples against the current route plan and keeps
// the remaining distance and duration up to date. A Tracker is owned by one
// driver session and is not safe for concurrent use.
type Tracker struct {
	cfg models.NavigationConfig

	plan     *models.RoutePlan
	valid    bool
	deviated bool

	history []models.LocationSample
	speeds  []speedSample

	closestIndex      int
	deviationMeters   float64
	remainingDistance float64
	remainingDuration time.Duration
}

// NewTracker creates a tracker with no route
func NewTracker(cfg models.NavigationConfig) *Tracker {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 1
	}
	if cfg.StationaryInflation <= 0 {
		cfg.StationaryInflation = 1
	}
	return &Tracker{cfg: cfg}
}

// Ingest records a sample and re-evaluates the route. It returns a
// route.deviated signal only on the transition from on-route to off-route.
func (t *Tracker) Ingest(sample models.LocationSample) []Signal {
	if !sample.Valid() {
		return nil
	}
	t.recordSpeed(sample)
	t.pushHistory(sample)
	if t.plan == nil {
		return nil
	}

	match, err := geo.ClosestPointOnPolyline(sample.Coordinate, t.plan.Polyline)
	if err != nil {
		t.valid = false
		t.updateRemaining(sample.Coordinate, geo.PolylinePoint{})
		return nil
	}
	t.closestIndex = match.Index
	t.deviationMeters = match.Distance

	var signals []Signal
	if match.Distance > t.cfg.DeviationThresholdMeters {
		if !t.deviated {
			signals = append(signals, Signal{
				Type: models.EventRouteDeviated,
				Payload: models.RouteDeviation{
					Location:        sample.Coordinate,
					DistanceMeters:  match.Distance,
					ThresholdMeters: t.cfg.DeviationThresholdMeters,
				},
			})
		}
		t.deviated = true
		t.valid = false
	} else if t.deviated {
		// back on the corridor before a new plan arrived
		t.deviated = false
		t.valid = true
	}

	t.updateRemaining(sample.Coordinate, match)
	return signals
}

// ReplaceRoute installs a new plan and clears any deviation
func (t *Tracker) ReplaceRoute(plan models.RoutePlan) error {
	if len(plan.Polyline) < 2 {
		return models.ErrInvalidPolyline
	}
	p := plan.Clone()
	t.plan = &p
	t.valid = true
	t.deviated = false
	t.closestIndex = 0
	t.deviationMeters = 0
	t.remainingDistance = geo.PolylineLength(p.Polyline)
	t.remainingDuration = seconds(p.ExpectedDurationSeconds)

	if last, ok := t.LastSample(); ok {
		if match, err := geo.ClosestPointOnPolyline(last.Coordinate, p.Polyline); err == nil {
			t.closestIndex = match.Index
			t.deviationMeters = match.Distance
			t.updateRemaining(last.Coordinate, match)
		}
	}
	return nil
}

// ClearRoute drops the plan and all route derived state. Location history
// is kept.
func (t *Tracker) ClearRoute() {
	t.plan = nil
	t.valid = false
	t.deviated = false
	t.closestIndex = 0
	t.deviationMeters = 0
	t.remainingDistance = 0
	t.remainingDuration = 0
}

// TrimToRemaining returns the current plan trimmed at the closest segment
func (t *Tracker) TrimToRemaining() (models.RoutePlan, error) {
	if t.plan == nil {
		return models.RoutePlan{}, models.ErrNoActiveRoute
	}
	return Trim(*t.plan, t.closestIndex)
}

// Deviated reports whether the last sample was outside the route corridor
func (t *Tracker) Deviated() bool { return t.deviated }

// HasRoute reports whether a plan is installed
func (t *Tracker) HasRoute() bool { return t.plan != nil }

// LastSample returns the most recent accepted sample
func (t *Tracker) LastSample() (models.LocationSample, bool) {
	if len(t.history) == 0 {
		return models.LocationSample{}, false
	}
	return t.history[len(t.history)-1], true
}

// History returns the retained samples, oldest first
func (t *Tracker) History() []models.LocationSample {
	return append([]models.LocationSample(nil), t.history...)
}

// Snapshot returns the read model. The route pointer is shared; plans are
// never modified after installation.
func (t *Tracker) Snapshot() models.NavigationSnapshot {
	snap := models.NavigationSnapshot{
		HasRoute:                t.plan != nil,
		RouteValid:              t.plan != nil && t.valid,
		Deviated:                t.deviated,
		ClosestIndex:            t.closestIndex,
		RemainingDistanceMeters: t.remainingDistance,
		RemainingDuration:       t.remainingDuration,
		Route:                   t.plan,
	}
	if last, ok := t.LastSample(); ok {
		snap.LastLocation = &last
	}
	return snap
}

func (t *Tracker) pushHistory(sample models.LocationSample) {
	if sample.Speed != nil {
		v := *sample.Speed
		sample.Speed = &v
	}
	t.history = append(t.history, sample)
	if over := len(t.history) - t.cfg.HistorySize; over > 0 {
		t.history = append(t.history[:0], t.history[over:]...)
	}
}

// recordSpeed takes the reported speed when present and otherwise derives one
// from the previous sample. Samples older than the averaging window are
// dropped.
func (t *Tracker) recordSpeed(sample models.LocationSample) {
	switch {
	case sample.Speed != nil && *sample.Speed >= 0:
		t.speeds = append(t.speeds, speedSample{at: sample.Timestamp, mps: *sample.Speed})
	default:
		prev, ok := t.LastSample()
		if !ok {
			break
		}
		dt := sample.Timestamp.Sub(prev.Timestamp).Seconds()
		if dt > 0 {
			t.speeds = append(t.speeds, speedSample{
				at:  sample.Timestamp,
				mps: geo.Distance(prev.Coordinate, sample.Coordinate) / dt,
			})
		}
	}

	cutoff := sample.Timestamp.Add(-t.cfg.SpeedWindow)
	keep := t.speeds[:0]
	for _, s := range t.speeds {
		if !s.at.Before(cutoff) {
			keep = append(keep, s)
		}
	}
	t.speeds = keep
}

func (t *Tracker) averageSpeed() (float64, bool) {
	if len(t.speeds) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range t.speeds {
		sum += s.mps
	}
	avg := sum / float64(len(t.speeds))
	return avg, avg >= t.cfg.MinMovingSpeedMps
}

// updateRemaining measures along the plan while it is valid and straight to
// the destination otherwise
func (t *Tracker) updateRemaining(at models.Coordinate, match geo.PolylinePoint) {
	pl := t.plan.Polyline
	if t.valid && match.Index+1 < len(pl) {
		t.remainingDistance = geo.Distance(match.Point, pl[match.Index+1]) + geo.PolylineLength(pl[match.Index+1:])
	} else if dest, ok := t.plan.Destination(); ok {
		t.remainingDistance = geo.Distance(at, dest)
	} else {
		t.remainingDistance = 0
	}
	t.remainingDuration = t.estimate(t.remainingDistance)
}

func (t *Tracker) estimate(remaining float64) time.Duration {
	avg, moving := t.averageSpeed()
	if !moving {
		return seconds(t.plan.ExpectedDurationSeconds * t.cfg.StationaryInflation)
	}
	eta := seconds(remaining / avg)
	if t.valid {
		turns, signals := t.delaysAhead()
		eta += time.Duration(turns)*t.cfg.TurnDelay + time.Duration(signals)*t.cfg.SignalDelay
	}
	return eta
}

// delaysAhead counts the maneuvers and traffic signals past the closest
// segment. Steps are used when the provider returned them, otherwise turns
// are inferred from bearing changes between polyline segments.
func (t *Tracker) delaysAhead() (turns, signals int) {
	idx := t.closestIndex
	if len(t.plan.Steps) > 0 {
		var urban float64
		for _, s := range t.plan.Steps {
			if s.StartIndex <= idx {
				continue
			}
			turns++
			if s.Urban {
				urban += s.DistanceMeters
			}
		}
		if t.cfg.SignalSpacingMeters > 0 {
			signals = int(urban / t.cfg.SignalSpacingMeters)
		}
		return turns, signals
	}

	pl := t.plan.Polyline
	for i := idx + 1; i < len(pl)-1; i++ {
		in := geo.Bearing(pl[i-1], pl[i])
		out := geo.Bearing(pl[i], pl[i+1])
		if geo.BearingDelta(in, out) >= t.cfg.TurnAngleDegrees {
			turns++
		}
	}
	return turns, 0
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
