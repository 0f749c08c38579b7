package models

import "time"

// NavigationSnapshot is the read model of route tracking
type NavigationSnapshot struct {
	Active                  bool            `json:"active"`
	TripID                  string          `json:"trip_id,omitempty"`
	HasRoute                bool            `json:"has_route"`
	RouteValid              bool            `json:"route_valid"`
	Deviated                bool            `json:"deviated"`
	Recalculating           bool            `json:"recalculating"`
	ClosestIndex            int             `json:"closest_index"`
	RemainingDistanceMeters float64         `json:"remaining_distance_meters"`
	RemainingDuration       time.Duration   `json:"remaining_duration"`
	LastLocation            *LocationSample `json:"last_location,omitempty"`
	Route                   *RoutePlan      `json:"route,omitempty"`
}

// SessionSnapshot is an immutable copy of one driver's session state
type SessionSnapshot struct {
	DriverID   string             `json:"driver_id"`
	Token      string             `json:"token"`
	Active     *Trip              `json:"active,omitempty"`
	Queue      []Trip             `json:"queue"`
	Navigation NavigationSnapshot `json:"navigation"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
