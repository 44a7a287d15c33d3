package authz

import (
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
)

// Actor is the resolved caller context for one request: the verified user,
// the company membership the request runs under, and the role that
// membership grants. It is built per request by the directory service and
// never from client-asserted claims.
type Actor struct {
	UserID    string
	CompanyID string
	Role      domain.Role

	// PreviewRole, when set, changes what Preview reports so a UI can show
	// how the app looks to a lesser role. It is request-scoped and never
	// consulted by Can.
	PreviewRole domain.Role
}

// Can is the authoritative permission check used at the mutation boundary.
func (a Actor) Can(p Permission) bool {
	return Has(a.Role, p)
}

// Preview is the advisory check used to decide what a UI should offer. With
// a preview role set it reports the intersection of the real role and the
// previewed one, so previewing can only ever narrow.
func (a Actor) Preview(p Permission) bool {
	if a.PreviewRole == "" {
		return a.Can(p)
	}
	return a.Can(p) && Has(a.PreviewRole, p)
}

// ScopeFor resolves the tenant scope an actor's data access runs under.
// app_owner is the only role that crosses tenants.
func ScopeFor(a Actor) store.Scope {
	if a.Role == domain.RoleAppOwner {
		return store.GlobalScope()
	}
	return store.TenantScope(a.CompanyID)
}
