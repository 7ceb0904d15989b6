package models

import (
	"time"

	"github.com/google/uuid"
)

// Status constants for the content piece workflow.
const (
	StatusDraft            = "draft"
	StatusInReview         = "in_review"
	StatusChangesRequested = "changes_requested"
	StatusApproved         = "approved"
	StatusScheduled        = "scheduled"
	StatusPublished        = "published"
)

// Format constants for content pieces.
const (
	FormatPost     = "post"
	FormatStory    = "story"
	FormatReel     = "reel"
	FormatCarousel = "carousel"
)

// AllStatuses lists every workflow status in lifecycle order.
var AllStatuses = []string{
	StatusDraft,
	StatusInReview,
	StatusChangesRequested,
	StatusApproved,
	StatusScheduled,
	StatusPublished,
}

// ValidStatus reports whether s is a known workflow status.
func ValidStatus(s string) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ContentPiece represents a schedulable creative asset moving through the
// client-approval workflow.
type ContentPiece struct {
	ID                 uuid.UUID  `json:"id"`
	AgencyID           uuid.UUID  `json:"agency_id"`
	ClientID           uuid.UUID  `json:"client_id"`
	OwnerID            uuid.UUID  `json:"owner_id"`
	Title              string     `json:"title"`
	Caption            string     `json:"caption"`
	Format             string     `json:"format"` // post, story, reel, carousel
	Status             string     `json:"status"`
	ScheduledAt        time.Time  `json:"scheduled_at"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	Version            int        `json:"version"` // incremented per revision cycle
	Channels           []string   `json:"channels"`
	AutoPublish        bool       `json:"auto_publish"`
	ScheduledPublishAt *time.Time `json:"scheduled_publish_at,omitempty"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
	SupplierLink       *string    `json:"supplier_link,omitempty"`
	MediaCount         int        `json:"media_count"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// HasCaption returns true if the piece has a non-empty caption.
func (p *ContentPiece) HasCaption() bool {
	return p.Caption != ""
}

// HasMedia returns true if at least one media asset is attached.
func (p *ContentPiece) HasMedia() bool {
	return p.MediaCount > 0
}

// IsPublished returns true if the piece reached the published status.
func (p *ContentPiece) IsPublished() bool {
	return p.Status == StatusPublished
}

// ContentMedia is a media asset owned by a content piece. Deleting the piece
// deletes its media.
type ContentMedia struct {
	ID           uuid.UUID `json:"id"`
	ContentID    uuid.UUID `json:"content_id"`
	FileURL      string    `json:"file_url"`
	FileType     string    `json:"file_type"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContentComment is a discussion entry on a content piece. Comments flagged
// as adjustment requests are surfaced through the AdjustmentRequest model.
type ContentComment struct {
	ID        uuid.UUID `json:"id"`
	ContentID uuid.UUID `json:"content_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
