package constants

import "time"

// Redis key formats
const (
	KeyDriverLocation = "driver:location:%s" // driver:location:{driver_id}
	KeyDriverGeo      = "drivers:geo"        // geo set of last known driver positions
	KeyActiveTrip     = "driver:trip:%s"     // driver:trip:{driver_id}
	KeyRateLimit      = "rate:driver"
)

// Redis hash fields of the driver location
const (
	FieldLatitude  = "lat"
	FieldLongitude = "lng"
	FieldGeohash   = "geohash"
	FieldSpeed     = "speed"
	FieldTimestamp = "ts"
	FieldTripID    = "trip_id"
)

const (
	LocationTTL      = 30 * time.Minute
	ActiveTripTTL    = 24 * time.Hour
	GeohashPrecision = 7
)
