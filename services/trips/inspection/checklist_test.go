package inspection

import (
	"testing"

	"github.com/piresc/fleetnav/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkAll(t *testing.T, c *Checklist) {
	t.Helper()
	for _, it := range c.Items() {
		require.NoError(t, c.ToggleChecked(it.ID))
	}
}

func TestNewChecklist(t *testing.T) {
	c := NewChecklist(models.InspectionPreTrip)

	items := c.Items()
	require.Len(t, items, 12)
	sections := map[models.InspectionSection]int{}
	for _, it := range items {
		sections[it.Section]++
		assert.False(t, it.Checked)
	}
	assert.Equal(t, 3, sections[models.SectionExterior])
	assert.Equal(t, 3, sections[models.SectionInterior])
	assert.Equal(t, 3, sections[models.SectionMechanical])
	assert.Equal(t, 3, sections[models.SectionSafety])
	assert.Equal(t, models.InspectionPreTrip, c.Kind())
	assert.False(t, c.IsComplete())
}

func TestChecklist_Completion(t *testing.T) {
	// Arrange
	c := NewChecklist(models.InspectionPreTrip)

	// Act & Assert: all checked, no issues
	checkAll(t, c)
	assert.True(t, c.IsComplete())
	assert.False(t, c.HasAnyIssue())

	// an issue without notes blocks completion
	require.NoError(t, c.ToggleIssue("brakes"))
	assert.False(t, c.IsComplete())
	assert.True(t, c.HasAnyIssue())
	assert.Equal(t, []string{"Brakes"}, c.MissingItems())

	// whitespace is not a note
	require.NoError(t, c.SetNotes("brakes", "   "))
	assert.False(t, c.IsComplete())

	require.NoError(t, c.SetNotes("brakes", "squeaking on hard stops"))
	assert.True(t, c.IsComplete())
	assert.Empty(t, c.MissingItems())
}

func TestChecklist_UncheckingBreaksCompletion(t *testing.T) {
	c := NewChecklist(models.InspectionPostTrip)
	checkAll(t, c)

	require.NoError(t, c.ToggleChecked("first_aid"))

	assert.False(t, c.IsComplete())
	assert.Equal(t, []string{"First Aid Kit"}, c.MissingItems())
}

func TestChecklist_IssuesSummaryOrder(t *testing.T) {
	c := NewChecklist(models.InspectionPreTrip)
	checkAll(t, c)
	require.NoError(t, c.ToggleIssue("warning_triangle"))
	require.NoError(t, c.SetNotes("warning_triangle", "missing"))
	require.NoError(t, c.ToggleIssue("tires"))
	require.NoError(t, c.SetNotes("tires", "front left worn"))

	summary := c.IssuesSummary()

	assert.Equal(t, []models.IssueSummary{
		{Title: "Tires & Wheels", Notes: "front left worn"},
		{Title: "Warning Triangle", Notes: "missing"},
	}, summary)
	assert.Equal(t,
		"Issues reported during pre-trip inspection:\n- Tires & Wheels: front left worn\n- Warning Triangle: missing",
		c.MaintenanceDescription())
}

func TestChecklist_UnknownItem(t *testing.T) {
	c := NewChecklist(models.InspectionPreTrip)

	assert.ErrorIs(t, c.ToggleChecked("wings"), models.ErrUnknownInspectionItem)
	assert.ErrorIs(t, c.ToggleIssue("wings"), models.ErrUnknownInspectionItem)
	assert.ErrorIs(t, c.SetNotes("wings", "x"), models.ErrUnknownInspectionItem)
}

func TestChecklist_Apply(t *testing.T) {
	tests := []struct {
		name     string
		states   []models.ItemState
		wantErr  error
		complete bool
	}{
		{
			name: "all checked",
			states: func() []models.ItemState {
				var s []models.ItemState
				for _, it := range Template() {
					s = append(s, models.ItemState{ID: it.ID, Checked: true})
				}
				return s
			}(),
			complete: true,
		},
		{
			name:   "partial",
			states: []models.ItemState{{ID: "brakes", Checked: true}},
		},
		{
			name:    "unknown id leaves checklist untouched",
			states:  []models.ItemState{{ID: "brakes", Checked: true}, {ID: "wings", Checked: true}},
			wantErr: models.ErrUnknownInspectionItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecklist(models.InspectionPreTrip)

			err := c.Apply(tt.states)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				for _, it := range c.Items() {
					assert.False(t, it.Checked)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.complete, c.IsComplete())
		})
	}
}

func TestFromStates(t *testing.T) {
	c, err := FromStates(models.InspectionPostTrip, []models.ItemState{{ID: "cabin", Checked: true, HasIssue: true, Notes: "spilled coffee"}})

	require.NoError(t, err)
	assert.Equal(t, models.InspectionPostTrip, c.Kind())
	assert.True(t, c.HasAnyIssue())

	_, err = FromStates(models.InspectionPostTrip, []models.ItemState{{ID: "nope"}})
	assert.ErrorIs(t, err, models.ErrUnknownInspectionItem)
}
