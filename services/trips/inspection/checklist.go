package inspection

import (
	"fmt"
	"strings"

	"github.com/piresc/fleetnav/internal/pkg/models"
)

type templateItem struct {
	id      string
	section models.InspectionSection
	title   string
}

// canonical items, in display order
var template = []templateItem{
	{"tires", models.SectionExterior, "Tires & Wheels"},
	{"lights", models.SectionExterior, "Lights & Signals"},
	{"body", models.SectionExterior, "Body & Mirrors"},
	{"dashboard", models.SectionInterior, "Dashboard Warning Lights"},
	{"seats", models.SectionInterior, "Seats & Seatbelts"},
	{"cabin", models.SectionInterior, "Cabin Cleanliness"},
	{"brakes", models.SectionMechanical, "Brakes"},
	{"fluids", models.SectionMechanical, "Engine Oil & Fluids"},
	{"steering", models.SectionMechanical, "Steering & Horn"},
	{"fire_extinguisher", models.SectionSafety, "Fire Extinguisher"},
	{"first_aid", models.SectionSafety, "First Aid Kit"},
	{"warning_triangle", models.SectionSafety, "Warning Triangle"},
}

// Template returns the unchecked items of a fresh checklist
func Template() []models.InspectionItem {
	items := make([]models.InspectionItem, len(template))
	for i, t := range template {
		items[i] = models.InspectionItem{ID: t.id, Section: t.section, Title: t.title}
	}
	return items
}

// Checklist is one inspection attempt. It is created fresh per attempt and
// never shared between pre-trip and post-trip.
type Checklist struct {
	kind  models.InspectionKind
	items []models.InspectionItem
	index map[string]int
}

// NewChecklist creates an empty checklist of the given kind
func NewChecklist(kind models.InspectionKind) *Checklist {
	items := Template()
	index := make(map[string]int, len(items))
	for i, it := range items {
		index[it.ID] = i
	}
	return &Checklist{kind: kind, items: items, index: index}
}

// FromStates builds a checklist and applies client submitted item states
func FromStates(kind models.InspectionKind, states []models.ItemState) (*Checklist, error) {
	c := NewChecklist(kind)
	if err := c.Apply(states); err != nil {
		return nil, err
	}
	return c, nil
}

// Kind returns whether this is a pre-trip or post-trip checklist
func (c *Checklist) Kind() models.InspectionKind { return c.kind }

func (c *Checklist) item(id string) (*models.InspectionItem, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownInspectionItem, id)
	}
	return &c.items[i], nil
}

// ToggleChecked flips the checked flag of an item
func (c *Checklist) ToggleChecked(id string) error {
	it, err := c.item(id)
	if err != nil {
		return err
	}
	it.Checked = !it.Checked
	return nil
}

// ToggleIssue flips the issue flag of an item. Notes are kept.
func (c *Checklist) ToggleIssue(id string) error {
	it, err := c.item(id)
	if err != nil {
		return err
	}
	it.HasIssue = !it.HasIssue
	return nil
}

// SetNotes replaces the notes of an item
func (c *Checklist) SetNotes(id, text string) error {
	it, err := c.item(id)
	if err != nil {
		return err
	}
	it.Notes = text
	return nil
}

// Apply sets the listed items to the given states. Nothing is changed when
// any id is unknown.
func (c *Checklist) Apply(states []models.ItemState) error {
	for _, s := range states {
		if _, ok := c.index[s.ID]; !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownInspectionItem, s.ID)
		}
	}
	for _, s := range states {
		it := &c.items[c.index[s.ID]]
		it.Checked = s.Checked
		it.HasIssue = s.HasIssue
		it.Notes = s.Notes
	}
	return nil
}

func itemComplete(it models.InspectionItem) bool {
	return it.Checked && (!it.HasIssue || strings.TrimSpace(it.Notes) != "")
}

// IsComplete reports whether every item is checked and every reported issue
// carries notes
func (c *Checklist) IsComplete() bool {
	for _, it := range c.items {
		if !itemComplete(it) {
			return false
		}
	}
	return true
}

// HasAnyIssue reports whether any item is flagged
func (c *Checklist) HasAnyIssue() bool {
	for _, it := range c.items {
		if it.HasIssue {
			return true
		}
	}
	return false
}

// IssuesSummary lists flagged items in checklist order
func (c *Checklist) IssuesSummary() []models.IssueSummary {
	var out []models.IssueSummary
	for _, it := range c.items {
		if it.HasIssue {
			out = append(out, models.IssueSummary{Title: it.Title, Notes: it.Notes})
		}
	}
	return out
}

// MissingItems returns the titles of items that keep the checklist from
// completing
func (c *Checklist) MissingItems() []string {
	var out []string
	for _, it := range c.items {
		if !itemComplete(it) {
			out = append(out, it.Title)
		}
	}
	return out
}

// Items returns a copy of the items
func (c *Checklist) Items() []models.InspectionItem {
	return append([]models.InspectionItem(nil), c.items...)
}

// MaintenanceDescription renders the reported issues as ticket text
func (c *Checklist) MaintenanceDescription() string {
	issues := c.IssuesSummary()
	if len(issues) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Issues reported during %s:", c.kind.Label())
	for _, is := range issues {
		fmt.Fprintf(&b, "\n- %s: %s", is.Title, strings.TrimSpace(is.Notes))
	}
	return b.String()
}
