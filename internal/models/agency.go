package models

import (
	"time"

	"github.com/google/uuid"
)

// Agency is the tenant: a marketing agency serving one or more clients.
type Agency struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client is a customer of an agency. The responsible approver is the only
// user allowed to approve that client's content.
type Client struct {
	ID                    uuid.UUID  `json:"id"`
	AgencyID              uuid.UUID  `json:"agency_id"`
	Name                  string     `json:"name"`
	ResponsibleApproverID *uuid.UUID `json:"responsible_approver_id,omitempty"`

	// Registered geography, matched against the historical-event index to
	// decide whether a calendar day shows a content-idea affordance.
	Cities  []string `json:"cities"`
	States  []string `json:"states"`
	Regions []string `json:"regions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
