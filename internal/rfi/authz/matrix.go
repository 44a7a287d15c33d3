// Package authz holds the role/permission matrix and the actor context every
// operation is evaluated against. The matrix here is the single source of
// truth: the advisory checks a UI renders from and the authoritative checks
// at the mutation boundary both read the same table.
package authz

import "github.com/buildvane/rfihub/internal/rfi/domain"

// Permission is a named capability consulted at the mutation boundary.
type Permission string

const (
	PermCreateRFI           Permission = "create_rfi"
	PermEditRFI             Permission = "edit_rfi"
	PermCreateProject       Permission = "create_project"
	PermEditProject         Permission = "edit_project"
	PermAccessAdmin         Permission = "access_admin"
	PermViewRFIs            Permission = "view_rfis"
	PermViewProjects        Permission = "view_projects"
	PermViewReports         Permission = "view_reports"
	PermGenerateClientLink  Permission = "generate_client_link"
	PermPrintRFI            Permission = "print_rfi"
	PermSubmitRFI           Permission = "submit_rfi"
	PermRespondToRFI        Permission = "respond_to_rfi"
	PermCloseRFI            Permission = "close_rfi"
	PermDeleteRFI           Permission = "delete_rfi"
	PermExportData          Permission = "export_data"
	PermCreateUser          Permission = "create_user"
	PermInviteUser          Permission = "invite_user"
	PermViewUsers           Permission = "view_users"
	PermEditUserRoles       Permission = "edit_user_roles"
	PermDeleteUser          Permission = "delete_user"
	PermCreateReadonlyUser  Permission = "create_readonly_user"
	PermDeleteProject       Permission = "delete_project"
	PermDeleteOwnProject    Permission = "delete_own_project"
	PermEditCompanySettings Permission = "edit_company_settings"
)

// AllPermissions lists every known permission, used by the exhaustive matrix
// test and by the advisory permissions endpoint.
var AllPermissions = []Permission{
	PermCreateRFI, PermEditRFI, PermCreateProject, PermEditProject,
	PermAccessAdmin, PermViewRFIs, PermViewProjects, PermViewReports,
	PermGenerateClientLink, PermPrintRFI, PermSubmitRFI, PermRespondToRFI,
	PermCloseRFI, PermDeleteRFI, PermExportData, PermCreateUser,
	PermInviteUser, PermViewUsers, PermEditUserRoles, PermDeleteUser,
	PermCreateReadonlyUser, PermDeleteProject, PermDeleteOwnProject,
	PermEditCompanySettings,
}

type permSet map[Permission]struct{}

func set(perms ...Permission) permSet {
	s := make(permSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func allPerms() permSet {
	return set(AllPermissions...)
}

// matrix is the fixed role/permission table. Changing a cell here changes
// both what the UI offers and what the server enforces, which is the point.
var matrix = map[domain.Role]permSet{
	domain.RoleAppOwner:   allPerms(),
	domain.RoleSuperAdmin: allPerms(),
	domain.RoleAdmin: set(
		PermCreateRFI, PermEditRFI, PermCreateProject, PermEditProject,
		PermAccessAdmin, PermViewRFIs, PermViewProjects, PermViewReports,
		PermGenerateClientLink, PermPrintRFI, PermSubmitRFI, PermRespondToRFI,
		PermCloseRFI, PermDeleteRFI, PermExportData, PermCreateUser,
		PermInviteUser, PermViewUsers, PermEditUserRoles, PermDeleteUser,
		PermCreateReadonlyUser, PermDeleteOwnProject,
	),
	domain.RoleRFIUser: set(
		PermCreateRFI, PermEditRFI, PermViewRFIs, PermViewProjects,
		PermViewReports, PermPrintRFI, PermRespondToRFI, PermCloseRFI,
	),
	domain.RoleViewOnly: set(
		PermViewRFIs, PermViewProjects, PermViewReports, PermPrintRFI,
	),
	domain.RoleClientCollaborator: set(
		PermViewRFIs, PermRespondToRFI, PermPrintRFI,
	),
}

// Has reports whether role grants permission. It is pure and total: unknown
// roles and unknown permissions both evaluate to false.
func Has(role domain.Role, permission Permission) bool {
	perms, ok := matrix[role]
	if !ok {
		return false
	}
	_, ok = perms[permission]
	return ok
}
