package navigation

import (
	"github.com/piresc/fleetnav/internal/pkg/geo"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// GeofenceMonitor tracks inside/outside state per registered fence and
// reports only the crossings. Every fence starts outside. Fences sharing a
// name keep separate state.
type GeofenceMonitor struct {
	fences []models.Geofence
	inside []bool
}

// NewGeofenceMonitor creates a monitor for fences
func NewGeofenceMonitor(fences ...models.Geofence) *GeofenceMonitor {
	m := &GeofenceMonitor{}
	m.Reset(fences...)
	return m
}

// TripGeofences returns the pickup and destination fences of a trip
func TripGeofences(trip models.Trip, cfg models.NavigationConfig) []models.Geofence {
	return []models.Geofence{
		{Name: models.GeofencePickup, Center: trip.Pickup.Coordinate, RadiusMeters: cfg.PickupRadiusMeters},
		{Name: models.GeofenceDestination, Center: trip.Destination.Coordinate, RadiusMeters: cfg.DestinationRadiusMeters},
	}
}

// Reset replaces the monitored fences and forgets all state
func (m *GeofenceMonitor) Reset(fences ...models.Geofence) {
	m.fences = append([]models.Geofence(nil), fences...)
	m.inside = make([]bool, len(fences))
}

// Fences returns the monitored fences
func (m *GeofenceMonitor) Fences() []models.Geofence {
	return append([]models.Geofence(nil), m.fences...)
}

// Inside reports whether the last sample was inside any fence with name
func (m *GeofenceMonitor) Inside(name string) bool {
	for i, f := range m.fences {
		if f.Name == name && m.inside[i] {
			return true
		}
	}
	return false
}

// Ingest evaluates every fence in registration order
func (m *GeofenceMonitor) Ingest(sample models.LocationSample) []Signal {
	if !sample.Valid() {
		return nil
	}
	var signals []Signal
	for i, f := range m.fences {
		d := geo.Distance(sample.Coordinate, f.Center)
		in := d <= f.RadiusMeters
		if in == m.inside[i] {
			continue
		}
		m.inside[i] = in

		typ := models.EventGeofenceExited
		if in {
			typ = models.EventGeofenceEntered
		}
		signals = append(signals, Signal{
			Type: typ,
			Payload: models.GeofenceCrossing{
				Fence:          f,
				Location:       sample.Coordinate,
				DistanceMeters: d,
			},
		})
	}
	return signals
}
