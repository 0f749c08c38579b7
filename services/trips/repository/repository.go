package repository

import "github.com/piresc/fleetnav/services/trips"

var (
	_ trips.TripRepo     = (*TripRepo)(nil)
	_ trips.LocationRepo = (*LocationRepo)(nil)
)
