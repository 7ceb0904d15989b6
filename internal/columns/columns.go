// Package columns maps user-configurable kanban columns onto the underlying
// content status enum. The mapping is data-driven: agencies add and remove
// custom columns without new statuses ever being introduced.
package columns

import (
	"errors"

	"contentflow/internal/models"
)

// ErrNotDroppable is returned when a card is dropped onto a column that does
// not resolve to a status (the request feed).
var ErrNotDroppable = errors.New("cards cannot be dropped onto the requests column")

// Resolution describes what a kanban column shows.
type Resolution struct {
	// Status is the underlying status filter. Empty when Requests is set.
	Status string
	// Requests marks the aggregated request feed, which is not a status.
	Requests bool
	// FutureOnly restricts the column to pieces with a future scheduled
	// date (the "scheduled" column shows approved pieces not yet due).
	FutureOnly bool
}

// statusMap holds the identity mappings. The "scheduled" literal and the
// "requests" literal are handled before this table is consulted.
var statusMap = map[string]string{
	models.StatusDraft:            models.StatusDraft,
	models.StatusInReview:         models.StatusInReview,
	models.StatusChangesRequested: models.StatusChangesRequested,
	models.StatusApproved:         models.StatusApproved,
	models.StatusPublished:        models.StatusPublished,
}

// Resolve translates a column ID into what the column displays.
// Custom and unrecognized column IDs resolve to draft: custom columns are a
// visual grouping on top of draft, not an extra state.
func Resolve(columnID string) Resolution {
	switch columnID {
	case models.ColumnScheduled:
		return Resolution{Status: models.StatusApproved, FutureOnly: true}
	case models.ColumnRequests:
		return Resolution{Requests: true}
	}
	if status, ok := statusMap[columnID]; ok {
		return Resolution{Status: status}
	}
	return Resolution{Status: models.StatusDraft}
}

// DropStatus returns the status a card takes when dropped onto the column.
// Dropping onto the request feed is rejected.
func DropStatus(columnID string) (string, error) {
	res := Resolve(columnID)
	if res.Requests {
		return "", ErrNotDroppable
	}
	return res.Status, nil
}
