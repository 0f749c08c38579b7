package navigation

import (
	"github.com/piresc/fleetnav/internal/pkg/geo"
	"github.com/piresc/fleetnav/internal/pkg/models"
)

// Trim returns a copy of plan starting at polyline vertex index. Distance and
// duration are scaled by the share of the geometry that remains and steps are
// re-indexed, keeping the step that contains index. Trim(Trim(p, i), 0)
// equals Trim(p, i).
func Trim(plan models.RoutePlan, index int) (models.RoutePlan, error) {
	if index < 0 || index > len(plan.Polyline)-2 {
		return models.RoutePlan{}, models.ErrInvalidPolyline
	}

	out := plan.Clone()
	out.Polyline = append([]models.Coordinate(nil), plan.Polyline[index:]...)

	full := geo.PolylineLength(plan.Polyline)
	ratio := 1.0
	if full > 0 {
		ratio = geo.PolylineLength(out.Polyline) / full
	}
	out.TotalDistanceMeters = plan.TotalDistanceMeters * ratio
	out.ExpectedDurationSeconds = plan.ExpectedDurationSeconds * ratio

	first := 0
	for i, s := range plan.Steps {
		if s.StartIndex <= index {
			first = i
		}
	}
	out.Steps = nil
	for _, s := range plan.Steps[first:] {
		s.StartIndex -= index
		if s.StartIndex < 0 {
			s.StartIndex = 0
		}
		out.Steps = append(out.Steps, s)
	}
	return out, nil
}
