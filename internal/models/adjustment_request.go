package models

import (
	"time"

	"github.com/google/uuid"
)

// AdjustmentRequest records why a content piece was sent back for changes.
// Rows are immutable once created; they form an additive history.
//
// ContentID is a weak reference: the parent piece is looked up on demand and
// may be gone, in which case resolution reports not found.
type AdjustmentRequest struct {
	ID        uuid.UUID `json:"id"`
	ContentID uuid.UUID `json:"content_id"`
	Reason    string    `json:"reason"`
	Details   string    `json:"details"`
	Version   int       `json:"version"` // content piece version this targets
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	// Non-DB fields, populated via JOIN for display and aggregation.
	ClientID          uuid.UUID  `json:"client_id,omitempty"`
	ContentTitle      string     `json:"content_title,omitempty"`
	ParentScheduledAt *time.Time `json:"parent_scheduled_at,omitempty"`
	ParentCreatedAt   *time.Time `json:"parent_created_at,omitempty"`
}
