package domain

import "time"

// Role is the capability class a membership grants within one company.
type Role string

const (
	// RoleAppOwner is the operator role; the only role exempt from tenant
	// scoping.
	RoleAppOwner Role = "app_owner"
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleRFIUser    Role = "rfi_user"
	RoleViewOnly   Role = "view_only"
	// RoleClientCollaborator is granted to client-side accounts a company
	// invites in; most of its capability surface matches what an anonymous
	// access-token bearer can do.
	RoleClientCollaborator Role = "client_collaborator"
)

// ParseRole validates a role string. Unknown values are rejected rather than
// defaulted so a typo can never widen access.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAppOwner, RoleSuperAdmin, RoleAdmin, RoleRFIUser, RoleViewOnly, RoleClientCollaborator:
		return Role(s), true
	}
	return "", false
}

// Membership binds a user to a company with exactly one role.
type Membership struct {
	UserID    string
	CompanyID string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
