package store

import (
	"context"
	"errors"
	"time"

	"github.com/buildvane/rfihub/internal/rfi/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Tenant-owned repositories take a Scope on every call so an
// unscoped query cannot be written.
type Store interface {
	Companies() Companies
	Users() Users
	Memberships() Memberships
	Projects() Projects
	RFIs() RFIs
	AccessTokens() AccessTokens
	Notifications() Notifications

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back if fn errors and
	// committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Companies interface {
	// CreateCompany inserts a new tenant (id is provided by app via ULID).
	CreateCompany(ctx context.Context, c domain.Company) error

	// GetCompany returns a company by id.
	GetCompany(ctx context.Context, id string) (domain.Company, error)

	// UpdateCompanyName mutates the name and bumps updated_at.
	UpdateCompanyName(ctx context.Context, id, name string) error

	// ListCompanies returns all tenants, newest first. Operator surface only.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type Memberships interface {
	// CreateMembership inserts a (user, company, role) binding. A second
	// binding for the same pair fails with ErrAlreadyExists.
	CreateMembership(ctx context.Context, m domain.Membership) error

	// GetMembership returns the membership for a (user, company) pair.
	GetMembership(ctx context.Context, userID, companyID string) (domain.Membership, error)

	// ListUserMemberships returns every company the user belongs to.
	ListUserMemberships(ctx context.Context, userID string) ([]domain.Membership, error)

	// ListCompanyMembers returns every membership in a company.
	ListCompanyMembers(ctx context.Context, companyID string) ([]domain.Membership, error)

	// UpdateMembershipRole changes the role for an existing binding.
	UpdateMembershipRole(ctx context.Context, userID, companyID string, role domain.Role) error

	// DeleteMembership removes the binding.
	DeleteMembership(ctx context.Context, userID, companyID string) error
}

type Projects interface {
	CreateProject(ctx context.Context, p domain.Project) error

	// GetProject returns a project visible inside sc. A project owned by
	// another tenant is ErrNotFound, indistinguishable from a missing row.
	GetProject(ctx context.Context, sc Scope, id string) (domain.Project, error)

	ListProjects(ctx context.Context, sc Scope) ([]domain.Project, error)

	UpdateProject(ctx context.Context, sc Scope, id, name, clientCompanyName string) error

	DeleteProject(ctx context.Context, sc Scope, id string) error
}

// RFIStateChange is the compare-and-set payload for a workflow transition:
// the expected current state, the target state, and the auxiliary fields the
// transition writes alongside it.
type RFIStateChange struct {
	From domain.State
	To   domain.State

	SetDueDate      *time.Time
	SetAssignedTo   *string
	SetResponse     *string
	SetResponseDate *time.Time
}

type RFIs interface {
	CreateRFI(ctx context.Context, sc Scope, r domain.RFI) error

	GetRFI(ctx context.Context, sc Scope, id string) (domain.RFI, error)

	ListProjectRFIs(ctx context.Context, sc Scope, projectID string) ([]domain.RFI, error)

	// UpdateRFIContent mutates subject/question and bumps updated_at.
	UpdateRFIContent(ctx context.Context, sc Scope, id, subject, question string) error

	// ApplyStateChange persists change.To plus auxiliary fields, conditioned
	// on the stored state still equalling change.From. It reports whether
	// the write happened; false means a concurrent writer won and nothing
	// changed.
	ApplyStateChange(ctx context.Context, sc Scope, id string, change RFIStateChange) (bool, error)

	DeleteRFI(ctx context.Context, sc Scope, id string) error
}

type AccessTokens interface {
	// CreateToken stores a new client access token record (hash only).
	CreateToken(ctx context.Context, t domain.ClientAccessToken) error

	// GetTokenByHash returns the token record by fingerprint regardless of
	// expiry or revocation; the service decides which error to surface.
	GetTokenByHash(ctx context.Context, hash string) (domain.ClientAccessToken, error)

	// RevokeTokensForRFI flips revoked on every token bound to the RFI.
	RevokeTokensForRFI(ctx context.Context, sc Scope, rfiID string) error

	// DeleteExpiredTokens is housekeeping.
	DeleteExpiredTokens(ctx context.Context) error
}

type Notifications interface {
	CreateNotification(ctx context.Context, n domain.NotificationEvent) error

	// ListRFINotifications returns the event history for an RFI, newest
	// first, within sc.
	ListRFINotifications(ctx context.Context, sc Scope, rfiID string) ([]domain.NotificationEvent, error)
}
