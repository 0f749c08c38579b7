package models

// InspectionKind distinguishes pre-trip from post-trip checklists
type InspectionKind string

const (
	InspectionPreTrip  InspectionKind = "pre_trip"
	InspectionPostTrip InspectionKind = "post_trip"
)

// Label returns the human readable name used in driver-facing messages
func (k InspectionKind) Label() string {
	switch k {
	case InspectionPreTrip:
		return "pre-trip inspection"
	case InspectionPostTrip:
		return "post-trip inspection"
	default:
		return string(k)
	}
}

// InspectionSection groups checklist items
type InspectionSection string

const (
	SectionExterior   InspectionSection = "exterior"
	SectionInterior   InspectionSection = "interior"
	SectionMechanical InspectionSection = "mechanical"
	SectionSafety     InspectionSection = "safety"
)

// InspectionItem is one line of a vehicle inspection
type InspectionItem struct {
	ID       string            `json:"id"`
	Section  InspectionSection `json:"section"`
	Title    string            `json:"title"`
	Checked  bool              `json:"checked"`
	HasIssue bool              `json:"has_issue"`
	Notes    string            `json:"notes"`
}

// ItemState is the client-submitted state of a checklist item
type ItemState struct {
	ID       string `json:"id" validate:"required"`
	Checked  bool   `json:"checked"`
	HasIssue bool   `json:"has_issue"`
	Notes    string `json:"notes"`
}

// IssueSummary is a reported defect
type IssueSummary struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}
