package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleMember   = "member"   // agency staff
	RoleManager  = "manager"  // agency staff with override rights
	RoleAdmin    = "admin"    // agency owner
	RoleApprover = "approver" // client-side reviewer
)

// User represents a user authenticated via OIDC. Agency staff carry an
// AgencyID; client-side approvers additionally carry a ClientID.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Sub       string     `json:"sub"` // OIDC subject identifier
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Picture   string     `json:"picture"`
	Role      string     `json:"role"` // member, manager, admin, approver
	AgencyID  uuid.UUID  `json:"agency_id"`
	ClientID  *uuid.UUID `json:"client_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsAdmin returns true if the user owns the agency.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsAgencySide returns true for agency staff of any rank.
func (u *User) IsAgencySide() bool {
	return u.Role == RoleMember || u.Role == RoleManager || u.Role == RoleAdmin
}

// CanOverride returns true if the user may force arbitrary status changes.
// Manual overrides are an agency-side operator action.
func (u *User) CanOverride() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
