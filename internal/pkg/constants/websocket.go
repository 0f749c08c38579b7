package constants

// WebSocket control events. Domain events use their models.EventType.
const (
	EventError          = "error"
	EventPing           = "ping"
	EventPong           = "pong"
	EventSnapshot       = "session.snapshot"
	EventConnected      = "connected"
	EventLocationUpdate = "location.update"
)

// WebSocket error codes
const (
	ErrorInvalidFormat   = "invalid_format"
	ErrorInvalidLocation = "invalid_location"
	ErrorSessionNotFound = "session_not_found"
	ErrorInternalError   = "internal_error"
)
