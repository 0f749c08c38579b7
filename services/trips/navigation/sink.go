package navigation

import "github.com/piresc/fleetnav/internal/pkg/models"

// Signal is raised by a sink while it consumes a location sample. The driver
// session turns signals into events.
type Signal struct {
	Type    models.EventType
	Payload interface{}
}

// LocationSink consumes the session's location stream
type LocationSink interface {
	Ingest(sample models.LocationSample) []Signal
}

var (
	_ LocationSink = (*Tracker)(nil)
	_ LocationSink = (*GeofenceMonitor)(nil)
)
