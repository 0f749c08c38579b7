package models

import "time"

// Coordinate is a WGS84 latitude/longitude pair in degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" db:"longitude" validate:"gte=-180,lte=180"`
}

// Valid reports whether the coordinate lies within WGS84 bounds
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// LocationSample is a single reading from the device location source
type LocationSample struct {
	Coordinate
	Timestamp time.Time `json:"timestamp"`
	// Speed in meters per second, nil when the source did not report one
	Speed *float64 `json:"speed,omitempty"`
}

// Place is a named trip endpoint
type Place struct {
	Description string     `json:"description" db:"description"`
	Coordinate  Coordinate `json:"coordinate"`
}
