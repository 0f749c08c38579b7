package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/services/trips/inspection"
)

// IssuePolicy decides what a pre-trip inspection with reported issues does
type IssuePolicy int

const (
	// IssuePolicyReport completes the inspection and raises an urgent
	// maintenance request
	IssuePolicyReport IssuePolicy = iota
	// IssuePolicyBlock raises the request and refuses to complete the
	// inspection
	IssuePolicyBlock
)

// PolicyFromConfig maps the inspection config flag to a policy
func PolicyFromConfig(cfg models.InspectionConfig) IssuePolicy {
	if cfg.BlockOnPreTripIssue {
		return IssuePolicyBlock
	}
	return IssuePolicyReport
}

func (p IssuePolicy) String() string {
	if p == IssuePolicyBlock {
		return "block"
	}
	return "report"
}

// Lifecycle owns one trip's status and inspection flags. Every successful
// transition bumps the version and leaves the trip pending until the caller
// confirms or reverts it.
type Lifecycle struct {
	trip   models.Trip
	policy IssuePolicy
	now    func() time.Time
}

// New wraps a trip loaded from storage
func New(trip models.Trip, policy IssuePolicy) *Lifecycle {
	t := trip.Clone()
	if t.Sync == "" {
		t.Sync = models.SyncConfirmed
	}
	return &Lifecycle{trip: t, policy: policy, now: models.Now}
}

// Trip returns a copy of the current projection
func (l *Lifecycle) Trip() models.Trip { return l.trip.Clone() }

// ID returns the trip id
func (l *Lifecycle) ID() string { return l.trip.ID }

// Status returns the trip status
func (l *Lifecycle) Status() models.TripStatus { return l.trip.Status }

func (l *Lifecycle) commit(next models.Trip) {
	next.Version = l.trip.Version + 1
	next.Sync = models.SyncPending
	l.trip = next
}

// Start moves an assigned trip to in progress. Whether another trip is
// already running is the scheduler's concern.
func (l *Lifecycle) Start() error {
	if l.trip.Status != models.TripStatusAssigned {
		return &models.TransitionError{Op: "start", From: l.trip.Status}
	}
	next := l.trip.Clone()
	next.Status = models.TripStatusInProgress
	next.StartTime = models.TimePtr(l.now())
	l.commit(next)
	return nil
}

// CompletePreTrip records a finished pre-trip inspection. Reported issues
// produce an urgent maintenance request, which is returned even when the
// block policy refuses the transition.
func (l *Lifecycle) CompletePreTrip(cl *inspection.Checklist) (*models.MaintenanceRequest, error) {
	const op = "complete pre-trip inspection"
	if cl.Kind() != models.InspectionPreTrip {
		return nil, fmt.Errorf("%s: %w", op, models.ErrChecklistKind)
	}
	if l.trip.Status == models.TripStatusDelivered {
		return nil, &models.TransitionError{Op: op, From: l.trip.Status}
	}
	if l.trip.HasCompletedPreTrip {
		return nil, &models.TransitionError{Op: op, From: l.trip.Status, Reason: "pre-trip inspection already completed"}
	}
	if !cl.IsComplete() {
		return nil, missingItems(op, cl)
	}

	var req *models.MaintenanceRequest
	if cl.HasAnyIssue() {
		req = l.maintenanceRequest(cl, models.PriorityUrgent)
		if l.policy == IssuePolicyBlock {
			return req, &models.PreconditionError{Op: op, Missing: "repairs for the reported issues"}
		}
	}

	next := l.trip.Clone()
	next.HasCompletedPreTrip = true
	l.commit(next)
	return req, nil
}

// CompletePostTrip records a finished post-trip inspection. Issues raise a
// low priority request and never block.
func (l *Lifecycle) CompletePostTrip(cl *inspection.Checklist) (*models.MaintenanceRequest, error) {
	const op = "complete post-trip inspection"
	if cl.Kind() != models.InspectionPostTrip {
		return nil, fmt.Errorf("%s: %w", op, models.ErrChecklistKind)
	}
	if l.trip.Status == models.TripStatusDelivered {
		return nil, &models.TransitionError{Op: op, From: l.trip.Status}
	}
	if !l.trip.HasCompletedPreTrip {
		return nil, &models.PreconditionError{Op: op, Missing: models.InspectionPreTrip.Label()}
	}
	if l.trip.Status != models.TripStatusInProgress {
		return nil, &models.TransitionError{Op: op, From: l.trip.Status}
	}
	if l.trip.HasCompletedPostTrip {
		return nil, &models.TransitionError{Op: op, From: l.trip.Status, Reason: "post-trip inspection already completed"}
	}
	if !cl.IsComplete() {
		return nil, missingItems(op, cl)
	}

	var req *models.MaintenanceRequest
	if cl.HasAnyIssue() {
		req = l.maintenanceRequest(cl, models.PriorityLow)
	}

	next := l.trip.Clone()
	next.HasCompletedPostTrip = true
	l.commit(next)
	return req, nil
}

// MarkDelivered closes the trip. Both inspections must be done.
func (l *Lifecycle) MarkDelivered() error {
	const op = "mark the trip delivered"
	if l.trip.Status == models.TripStatusDelivered {
		return &models.TransitionError{Op: "deliver", From: l.trip.Status}
	}
	if !l.trip.HasCompletedPreTrip {
		return &models.PreconditionError{Op: op, Missing: models.InspectionPreTrip.Label()}
	}
	if !l.trip.HasCompletedPostTrip {
		return &models.PreconditionError{Op: op, Missing: models.InspectionPostTrip.Label()}
	}
	if l.trip.Status != models.TripStatusInProgress {
		return &models.TransitionError{Op: "deliver", From: l.trip.Status}
	}

	next := l.trip.Clone()
	next.Status = models.TripStatusDelivered
	next.EndTime = models.TimePtr(l.now())
	l.commit(next)
	return nil
}

// Confirm marks the projection durable if no later transition happened
func (l *Lifecycle) Confirm(version int) bool {
	if l.trip.Version != version {
		return false
	}
	l.trip.Sync = models.SyncConfirmed
	return true
}

// Revert restores prev after the write of failedVersion was given up. The
// version stays at failedVersion so later writes still supersede anything
// that may have reached storage. Returns false when a newer transition has
// already replaced the failed one.
func (l *Lifecycle) Revert(prev models.Trip, failedVersion int) bool {
	if l.trip.Version != failedVersion {
		return false
	}
	restored := prev.Clone()
	restored.Version = failedVersion
	restored.Sync = models.SyncFailed
	l.trip = restored
	return true
}

func (l *Lifecycle) maintenanceRequest(cl *inspection.Checklist, priority models.MaintenancePriority) *models.MaintenanceRequest {
	return &models.MaintenanceRequest{
		ID:          uuid.NewString(),
		TripID:      l.trip.ID,
		VehicleID:   l.trip.VehicleID,
		DriverID:    l.trip.DriverID,
		Kind:        cl.Kind(),
		Priority:    priority,
		Issues:      cl.IssuesSummary(),
		Description: cl.MaintenanceDescription(),
		CreatedAt:   l.now(),
	}
}

func missingItems(op string, cl *inspection.Checklist) error {
	return &models.PreconditionError{
		Op:      op,
		Missing: "the checklist items " + strings.Join(cl.MissingItems(), ", "),
	}
}
