// Package geo holds the pure geometry used by route tracking and geofencing.
// Distances are great-circle meters on a spherical earth.
package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// EarthRadiusMeters is the mean earth radius used by every distance here
const EarthRadiusMeters = 6371000.0

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }

func toDegrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// Distance returns the haversine distance between two points in meters
func Distance(a, b models.Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// clamp rounding noise for antipodal points
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Bearing returns the initial bearing from one point to another in degrees,
// normalised to [0, 360)
func Bearing(from, to models.Coordinate) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	dLon := toRadians(to.Longitude - from.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// BearingDelta returns the absolute turn angle between two bearings in [0, 180]
func BearingDelta(a, b float64) float64 {
	d := math.Abs(math.Mod(a-b+540, 360) - 180)
	return d
}

// PolylineLength sums the segment lengths of a polyline in meters
func PolylineLength(polyline []models.Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(polyline); i++ {
		total += Distance(polyline[i-1], polyline[i])
	}
	return total
}

// Encode converts a coordinate to a geohash string
func Encode(c models.Coordinate, precision uint) string {
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, precision)
}

// Decode converts a geohash back to the center of its cell
func Decode(hash string) models.Coordinate {
	lat, lng := geohash.Decode(hash)
	return models.Coordinate{Latitude: lat, Longitude: lng}
}
