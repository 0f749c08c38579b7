package models

import (
	"time"
)

// TripStatus represents the current status of a trip
type TripStatus string

const (
	TripStatusAssigned   TripStatus = "assigned"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusDelivered  TripStatus = "delivered"
)

// SyncState tracks whether the local projection of a trip is durable
type SyncState string

const (
	SyncConfirmed SyncState = "confirmed"
	SyncPending   SyncState = "pending"
	SyncFailed    SyncState = "failed"
)

// Trip is the engine's local projection of a trip record
type Trip struct {
	ID                   string     `json:"id" db:"id"`
	DriverID             string     `json:"driver_id" db:"driver_id"`
	VehicleID            string     `json:"vehicle_id" db:"vehicle_id"`
	Pickup               Place      `json:"pickup"`
	Destination          Place      `json:"destination"`
	Status               TripStatus `json:"status" db:"status"`
	HasCompletedPreTrip  bool       `json:"has_completed_pre_trip" db:"has_completed_pre_trip"`
	HasCompletedPostTrip bool       `json:"has_completed_post_trip" db:"has_completed_post_trip"`
	Notes                string     `json:"notes,omitempty" db:"notes"`
	StartTime            *time.Time `json:"start_time,omitempty" db:"start_time"`
	EndTime              *time.Time `json:"end_time,omitempty" db:"end_time"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	Version              int        `json:"version" db:"version"`
	Sync                 SyncState  `json:"sync" db:"-"`
}

// Clone returns a copy that shares no pointers with t
func (t Trip) Clone() Trip {
	out := t
	if t.StartTime != nil {
		st := *t.StartTime
		out.StartTime = &st
	}
	if t.EndTime != nil {
		et := *t.EndTime
		out.EndTime = &et
	}
	return out
}
