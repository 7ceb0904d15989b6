package models

import (
	"time"

	"github.com/google/uuid"
)

// Job status constants for creative requests.
const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
)

// CreativeRequest is a client-initiated ask for a new asset that has not yet
// been produced as a content piece.
type CreativeRequest struct {
	ID             uuid.UUID  `json:"id"`
	AgencyID       uuid.UUID  `json:"agency_id"`
	ClientID       uuid.UUID  `json:"client_id"`
	Title          string     `json:"title"`
	RequestType    string     `json:"request_type"`
	JobStatus      string     `json:"job_status"` // pending, in_progress, completed
	TextContent    *string    `json:"text_content,omitempty"`
	CaptionText    *string    `json:"caption_text,omitempty"`
	Observations   *string    `json:"observations,omitempty"`
	ReferenceFiles []string   `json:"reference_files"`
	Deadline       *time.Time `json:"deadline,omitempty"`

	// Set only by an explicit fulfillment call; never inferred.
	FulfilledByContentID *uuid.UUID `json:"fulfilled_by_content_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen returns true while the request still needs agency work.
func (r *CreativeRequest) IsOpen() bool {
	return r.JobStatus != JobStatusCompleted
}
