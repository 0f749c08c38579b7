package models

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalTransition     = errors.New("illegal trip transition")
	ErrPreconditionNotMet    = errors.New("precondition not met")
	ErrDuplicateTrip         = errors.New("trip already scheduled")
	ErrNotQueued             = errors.New("trip is not queued")
	ErrInvalidPolyline       = errors.New("polyline needs at least two points")
	ErrNoRouteFound          = errors.New("no route found")
	ErrNoActiveRoute         = errors.New("no active route")
	ErrUnknownInspectionItem = errors.New("unknown inspection item")
	ErrSessionNotFound       = errors.New("driver session not found")
	ErrSessionClosed         = errors.New("driver session closed")
	ErrTripNotFound          = errors.New("trip not found")
	ErrNoActiveTrip          = errors.New("no active trip")
	ErrInvalidLocation       = errors.New("invalid location coordinates")
	ErrChecklistKind         = errors.New("checklist kind does not match the inspection")
	ErrSyncFailed            = errors.New("trip state could not be saved")
	ErrStaleTrip             = errors.New("trip was changed by a newer write")
	ErrRecalculating         = errors.New("route recalculation already in progress")
)

// TransitionError reports an operation attempted from a status that does not
// allow it
type TransitionError struct {
	Op     string
	From   TripStatus
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("cannot %s a trip that is %s", e.Op, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// PreconditionError names the step that must be completed first
type PreconditionError struct {
	Op      string
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot %s: complete %s first", e.Op, e.Missing)
}

func (e *PreconditionError) Unwrap() error { return ErrPreconditionNotMet }
