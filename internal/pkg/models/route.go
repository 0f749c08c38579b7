package models

// RouteStep is one maneuver of a computed route
type RouteStep struct {
	Instruction     string  `json:"instruction"`
	Maneuver        string  `json:"maneuver,omitempty"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
	// StartIndex is the polyline vertex where the step begins
	StartIndex int  `json:"start_index"`
	Urban      bool `json:"urban"`
}

// RoutePlan is a computed route for one trip. Plans are replaced wholesale,
// never edited in place.
type RoutePlan struct {
	Polyline                []Coordinate `json:"polyline"`
	TotalDistanceMeters     float64      `json:"total_distance_meters"`
	ExpectedDurationSeconds float64      `json:"expected_duration_seconds"`
	Steps                   []RouteStep  `json:"steps,omitempty"`
	AvoidTolls              bool         `json:"avoid_tolls"`
}

// Destination returns the last vertex of the polyline
func (p RoutePlan) Destination() (Coordinate, bool) {
	if len(p.Polyline) == 0 {
		return Coordinate{}, false
	}
	return p.Polyline[len(p.Polyline)-1], true
}

// Clone returns a deep copy of the plan
func (p RoutePlan) Clone() RoutePlan {
	out := p
	out.Polyline = append([]Coordinate(nil), p.Polyline...)
	out.Steps = append([]RouteStep(nil), p.Steps...)
	return out
}
