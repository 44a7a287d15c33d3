package store

// Scope is the tenant filter every project/RFI/token data access must carry.
// Repositories refuse to run without one: the zero Scope matches nothing, so
// forgetting to resolve a scope fails closed instead of leaking rows.
type Scope struct {
	companyID string
	global    bool
	valid     bool
}

// TenantScope restricts data access to a single company.
func TenantScope(companyID string) Scope {
	return Scope{companyID: companyID, valid: companyID != ""}
}

// GlobalScope crosses all tenants. Only the app_owner role resolves to it;
// see authz.ScopeFor.
func GlobalScope() Scope {
	return Scope{global: true, valid: true}
}

// IsGlobal reports whether the scope crosses all tenants.
func (s Scope) IsGlobal() bool { return s.valid && s.global }

// CompanyID returns the tenant this scope is restricted to, and false for
// global or invalid scopes.
func (s Scope) CompanyID() (string, bool) {
	if !s.valid || s.global {
		return "", false
	}
	return s.companyID, true
}

// IsValid reports whether the scope was built by one of the constructors.
func (s Scope) IsValid() bool { return s.valid }
