// Package realtime carries change events from write operations to board
// subscribers: redis pub/sub between instances, SSE to browsers.
package realtime

import "github.com/google/uuid"

// Slice names one of the four independently reloaded board data sets.
type Slice string

const (
	SliceColumns            Slice = "columns"
	SliceContent            Slice = "content"
	SliceCreativeRequests   Slice = "creative_requests"
	SliceAdjustmentRequests Slice = "adjustment_requests"
)

// Event is a change notification scoped to one agency. It tells subscribers
// which slice to re-fetch; it never carries the new data itself.
type Event struct {
	AgencyID uuid.UUID `json:"agency_id"`
	Slice    Slice     `json:"slice"`

	// Set for content changes so subscribers can raise transition alerts.
	ContentID *uuid.UUID `json:"content_id,omitempty"`
	Title     string     `json:"title,omitempty"`
	OldStatus string     `json:"old_status,omitempty"`
	NewStatus string     `json:"new_status,omitempty"`
}

// IsAlert reports whether the event should surface a user-facing alert:
// a transition into approved or changes_requested.
func (e Event) IsAlert() bool {
	if e.Slice != SliceContent || e.OldStatus == e.NewStatus {
		return false
	}
	return e.NewStatus == "approved" || e.NewStatus == "changes_requested"
}
