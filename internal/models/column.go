package models

import (
	"time"

	"github.com/google/uuid"
)

// Well-known column IDs that do not map 1:1 to a status.
const (
	ColumnScheduled = "scheduled" // approved pieces with a future date
	ColumnRequests  = "requests"  // aggregated request feed, not a status
)

// CustomColumnPrefix marks agency-defined columns. They group draft pieces
// visually and never introduce a new status.
const CustomColumnPrefix = "custom_"

// ColumnDefinition is a per-agency kanban column.
type ColumnDefinition struct {
	ID        uuid.UUID `json:"id"`
	AgencyID  uuid.UUID `json:"agency_id"`
	ColumnID  string    `json:"column_id"` // status name, "scheduled", "requests", or custom_*
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
	IsSystem  bool      `json:"is_system"` // system columns cannot be deleted
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultColumns returns the system columns seeded for a new agency.
func DefaultColumns(agencyID uuid.UUID) []ColumnDefinition {
	defs := []struct {
		columnID string
		name     string
		color    string
	}{
		{StatusDraft, "Draft", "#94a3b8"},
		{StatusInReview, "In Review", "#f59e0b"},
		{StatusChangesRequested, "Changes Requested", "#ef4444"},
		{StatusApproved, "Approved", "#22c55e"},
		{ColumnScheduled, "Scheduled", "#3b82f6"},
		{ColumnRequests, "Requests", "#a855f7"},
	}

	cols := make([]ColumnDefinition, 0, len(defs))
	for i, d := range defs {
		cols = append(cols, ColumnDefinition{
			AgencyID: agencyID,
			ColumnID: d.columnID,
			Name:     d.name,
			Color:    d.color,
			Order:    i,
			IsSystem: true,
		})
	}
	return cols
}
