package queue

import (
	"sort"

	"github.com/piresc/fleetnav/internal/pkg/logger"
	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/piresc/fleetnav/services/trips/lifecycle"
)

// Scheduler holds a driver's queued trips and the single active slot. It is
// owned by the driver session and not safe for concurrent use.
type Scheduler struct {
	active *lifecycle.Lifecycle
	queue  []*lifecycle.Lifecycle
}

// New creates an empty scheduler
func New() *Scheduler {
	return &Scheduler{}
}

// Load replaces the scheduler state with trips read from storage. One in
// progress trip becomes active, assigned trips are queued by creation time
// and delivered trips are ignored.
func (s *Scheduler) Load(trips []models.Trip, policy lifecycle.IssuePolicy) {
	sorted := append([]models.Trip(nil), trips...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	s.active = nil
	s.queue = nil
	seen := make(map[string]bool, len(sorted))
	for _, t := range sorted {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		switch t.Status {
		case models.TripStatusInProgress:
			if s.active != nil {
				logger.Warn("Ignoring extra in-progress trip",
					logger.TripID(t.ID),
					logger.String("active_trip_id", s.active.ID()))
				continue
			}
			s.active = lifecycle.New(t, policy)
		case models.TripStatusAssigned:
			s.queue = append(s.queue, lifecycle.New(t, policy))
		}
	}
}

// Enqueue appends an assigned trip
func (s *Scheduler) Enqueue(l *lifecycle.Lifecycle) error {
	if s.Find(l.ID()) != nil {
		return models.ErrDuplicateTrip
	}
	if l.Status() != models.TripStatusAssigned {
		return &models.TransitionError{Op: "queue", From: l.Status()}
	}
	s.queue = append(s.queue, l)
	return nil
}

// ActivateNext starts the head of the queue when nothing is running. It
// returns nil while a trip is in progress, while a delivery is not yet
// durable, or when the queue is empty.
func (s *Scheduler) ActivateNext() (*lifecycle.Lifecycle, error) {
	if s.active != nil {
		t := s.active.Trip()
		if t.Status == models.TripStatusInProgress {
			return nil, nil
		}
		if t.Status == models.TripStatusDelivered && t.Sync != models.SyncConfirmed {
			return nil, nil
		}
	}
	if len(s.queue) == 0 {
		return nil, nil
	}

	head := s.queue[0]
	if err := head.Start(); err != nil {
		return nil, err
	}
	s.queue = s.queue[1:]
	s.active = head
	return head, nil
}

// Decline removes a queued trip. The active trip cannot be declined.
func (s *Scheduler) Decline(tripID string) (*lifecycle.Lifecycle, error) {
	for i, l := range s.queue {
		if l.ID() == tripID {
			s.queue = append(s.queue[:i:i], s.queue[i+1:]...)
			return l, nil
		}
	}
	return nil, models.ErrNotQueued
}

// Requeue puts a trip whose activation was rolled back at the head of the
// queue and frees the active slot
func (s *Scheduler) Requeue(l *lifecycle.Lifecycle) {
	if s.active == l {
		s.active = nil
	}
	for _, q := range s.queue {
		if q == l {
			return
		}
	}
	s.queue = append([]*lifecycle.Lifecycle{l}, s.queue...)
}

// Find returns the active or queued trip with the given id
func (s *Scheduler) Find(tripID string) *lifecycle.Lifecycle {
	if s.active != nil && s.active.ID() == tripID {
		return s.active
	}
	for _, l := range s.queue {
		if l.ID() == tripID {
			return l
		}
	}
	return nil
}

// Active returns the trip occupying the active slot, which may be a
// delivered trip until the next activation
func (s *Scheduler) Active() *lifecycle.Lifecycle { return s.active }

// Peek returns the head of the queue without removing it
func (s *Scheduler) Peek() *lifecycle.Lifecycle {
	if len(s.queue) == 0 {
		return nil
	}
	return s.queue[0]
}

// Len returns the number of queued trips
func (s *Scheduler) Len() int { return len(s.queue) }

// Snapshot copies the active trip and the queue
func (s *Scheduler) Snapshot() (*models.Trip, []models.Trip) {
	var active *models.Trip
	if s.active != nil {
		t := s.active.Trip()
		active = &t
	}
	queued := make([]models.Trip, 0, len(s.queue))
	for _, l := range s.queue {
		queued = append(queued, l.Trip())
	}
	return active, queued
}
