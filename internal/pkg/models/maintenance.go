package models

import "time"

// MaintenancePriority tags a maintenance request
type MaintenancePriority string

const (
	PriorityUrgent MaintenancePriority = "urgent"
	PriorityLow    MaintenancePriority = "low"
)

// VehicleStatusUnderMaintenance is written to the vehicle record when an
// urgent request is raised
const VehicleStatusUnderMaintenance = "under_maintenance"

// MaintenanceRequest is raised when a completed inspection reports issues
type MaintenanceRequest struct {
	ID          string              `json:"id" db:"id"`
	TripID      string              `json:"trip_id" db:"trip_id"`
	VehicleID   string              `json:"vehicle_id" db:"vehicle_id"`
	DriverID    string              `json:"driver_id" db:"driver_id"`
	Kind        InspectionKind      `json:"kind" db:"kind"`
	Priority    MaintenancePriority `json:"priority" db:"priority"`
	Issues      []IssueSummary      `json:"issues"`
	Description string              `json:"description" db:"description"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
}
