package models

import (
	"time"

	"github.com/google/uuid"
)

// Work item type constants.
const (
	ItemTypeContent           = "content"
	ItemTypeCreativeRequest   = "creative_request"
	ItemTypeAdjustmentRequest = "adjustment_request"
)

// WorkItem is the unified, read-only projection used to render calendar and
// kanban views across the three entity kinds. It is never persisted; the
// aggregator recomputes it on every load.
type WorkItem struct {
	ID       uuid.UUID `json:"id"`
	ItemType string    `json:"item_type"` // content, creative_request, adjustment_request
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	ClientID uuid.UUID `json:"client_id"`

	// Used only for deterministic ordering of items sharing a date.
	CreatedAt time.Time `json:"created_at"`

	// Exactly one of the following is set, matching ItemType.
	Content           *ContentPiece      `json:"content,omitempty"`
	CreativeRequest   *CreativeRequest   `json:"creative_request,omitempty"`
	AdjustmentRequest *AdjustmentRequest `json:"adjustment_request,omitempty"`
}

// IsDraggable reports whether the item may be dragged between kanban
// columns. Request cards are display-only on the board.
func (w *WorkItem) IsDraggable() bool {
	return w.ItemType == ItemTypeContent
}
