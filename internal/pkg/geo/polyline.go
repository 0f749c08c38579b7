package geo

import (
	"math"

	"github.com/piresc/fleetnav/internal/pkg/models"
)

// PolylinePoint is the result of matching a point against a polyline
type PolylinePoint struct {
	// Index is the vertex that starts the closest segment
	Index int
	// Distance is the perpendicular distance in meters from the query point to
	// that segment
	Distance float64
	// Point is the foot of the perpendicular, clamped to the segment
	Point models.Coordinate
}

// ClosestPointOnPolyline finds the segment of polyline nearest to point.
// Each segment is projected in a local equirectangular plane centred on the
// query point, which is accurate at the segment lengths routing returns.
func ClosestPointOnPolyline(point models.Coordinate, polyline []models.Coordinate) (PolylinePoint, error) {
	if len(polyline) < 2 {
		return PolylinePoint{}, models.ErrInvalidPolyline
	}

	best := PolylinePoint{Distance: math.Inf(1)}
	for i := 0; i < len(polyline)-1; i++ {
		foot := projectOntoSegment(point, polyline[i], polyline[i+1])
		d := Distance(point, foot)
		if d < best.Distance {
			best = PolylinePoint{Index: i, Distance: d, Point: foot}
		}
	}
	return best, nil
}

// projectOntoSegment returns the point of segment ab closest to p
func projectOntoSegment(p, a, b models.Coordinate) models.Coordinate {
	kx := math.Cos(toRadians(p.Latitude))

	ax := (a.Longitude - p.Longitude) * kx
	ay := a.Latitude - p.Latitude
	bx := (b.Longitude - p.Longitude) * kx
	by := b.Latitude - p.Latitude

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}

	// p is the origin of the local plane
	t := -(ax*dx + ay*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return models.Coordinate{
		Latitude:  a.Latitude + t*(b.Latitude-a.Latitude),
		Longitude: a.Longitude + t*(b.Longitude-a.Longitude),
	}
}
