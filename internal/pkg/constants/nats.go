package constants

// NATS subjects. Trip events are published as fleet.<event type>, for
// example fleet.trip.started or fleet.geofence.entered.
const (
	SubjectPrefix = "fleet."

	// SubjectTripAssigned carries newly dispatched trips to the driver's
	// running session
	SubjectTripAssigned = "fleet.dispatch.trip_assigned"
)
