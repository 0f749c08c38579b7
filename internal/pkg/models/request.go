package models

import "time"

// OpenSessionRequest signs a driver in. VehicleID falls back to the
// vehicle carried by the token.
type OpenSessionRequest struct {
	VehicleID string `json:"vehicle_id" validate:"omitempty,max=64"`
}

// InspectionRequest submits a completed checklist
type InspectionRequest struct {
	Items []ItemState `json:"items" validate:"required,min=1,dive"`
}

// LocationUpdateRequest is one reading from the driver's device
type LocationUpdateRequest struct {
	Latitude  *float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	Speed     *float64   `json:"speed,omitempty" validate:"omitempty,gte=0"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Sample converts the request into a location sample, stamping it with now
// when the device sent no time
func (r LocationUpdateRequest) Sample(now time.Time) LocationSample {
	sample := LocationSample{
		Coordinate: Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude},
		Timestamp:  now,
		Speed:      r.Speed,
	}
	if r.Timestamp != nil {
		sample.Timestamp = *r.Timestamp
	}
	return sample
}

// InspectionResponse is the result of a completed inspection
type InspectionResponse struct {
	Trip               *Trip               `json:"trip,omitempty"`
	MaintenanceRequest *MaintenanceRequest `json:"maintenance_request,omitempty"`
}

// DeliveryResponse carries the delivered trip and the trip started after it
type DeliveryResponse struct {
	Delivered *Trip `json:"delivered"`
	Next      *Trip `json:"next,omitempty"`
}
