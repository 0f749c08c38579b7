package models

// Well-known fence names attached to every trip
const (
	GeofencePickup      = "pickup"
	GeofenceDestination = "destination"
)

// Geofence is a named circular zone
type Geofence struct {
	Name         string     `json:"name"`
	Center       Coordinate `json:"center"`
	RadiusMeters float64    `json:"radius_meters"`
}

// GeofenceCrossing is the payload of geofence.entered / geofence.exited events
type GeofenceCrossing struct {
	Fence          Geofence   `json:"fence"`
	Location       Coordinate `json:"location"`
	DistanceMeters float64    `json:"distance_meters"`
}
