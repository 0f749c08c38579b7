package models

import "time"

// EventType identifies what happened in a driver session
type EventType string

const (
	EventTripStarted           EventType = "trip.started"
	EventTripPreTripCompleted  EventType = "trip.pre_trip_completed"
	EventTripPostTripCompleted EventType = "trip.post_trip_completed"
	EventTripDelivered         EventType = "trip.delivered"
	EventTripDeclined          EventType = "trip.declined"
	EventTripAssigned          EventType = "trip.assigned"
	EventTripSyncFailed        EventType = "trip.sync_failed"
	EventRouteDeviated         EventType = "route.deviated"
	EventRouteReplaced         EventType = "route.replaced"
	EventGeofenceEntered       EventType = "geofence.entered"
	EventGeofenceExited        EventType = "geofence.exited"
	EventMaintenanceRequested  EventType = "maintenance.requested"
)

// Event is published for every state change a subscriber may care about
type Event struct {
	Type      EventType   `json:"type"`
	DriverID  string      `json:"driver_id"`
	TripID    string      `json:"trip_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// RouteDeviation is the payload of route.deviated
type RouteDeviation struct {
	Location        Coordinate `json:"location"`
	DistanceMeters  float64    `json:"distance_meters"`
	ThresholdMeters float64    `json:"threshold_meters"`
}

// Reasons carried by route.replaced
const (
	RouteReasonInitial   = "initial"
	RouteReasonDeviation = "deviation"
	RouteReasonManual    = "manual"
)

// RouteReplaced is the payload of route.replaced
type RouteReplaced struct {
	Reason                  string  `json:"reason"`
	TotalDistanceMeters     float64 `json:"total_distance_meters"`
	ExpectedDurationSeconds float64 `json:"expected_duration_seconds"`
	Points                  int     `json:"points"`
}

// SyncFailure is the payload of trip.sync_failed. Trip holds the state the
// session was rolled back to.
type SyncFailure struct {
	Trip  Trip   `json:"trip"`
	Error string `json:"error"`
}
