package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/pkg/idx"
	"github.com/buildvane/rfihub/pkg/slogx"
)

// DirectoryService owns companies, users, and memberships: the tenant
// directory every request's actor context is resolved against.
type DirectoryService struct {
	Store store.Store
}

// ResolveActor builds the actor context for a verified user id. The company
// and role always come from the membership table; any role claim a client
// asserts is ignored. companyID selects among the user's memberships and may
// be empty when the user belongs to exactly one company. previewRole, when
// set, is carried as an advisory override only.
func (s *DirectoryService) ResolveActor(
	ctx context.Context,
	userID string,
	companyID string,
	previewRole string,
) (authz.Actor, error) {
	log := slogx.FromContext(ctx)

	if userID == "" {
		return authz.Actor{}, domain.ErrNotFound
	}

	memberships, err := s.Store.Memberships().ListUserMemberships(ctx, userID)
	if err != nil {
		log.Error("failed to list memberships", slog.Any("error", err))
		return authz.Actor{}, err
	}
	if len(memberships) == 0 {
		log.Warn("authenticated user has no memberships", slog.String("user_id", userID))
		return authz.Actor{}, domain.ErrNotFound
	}

	var membership domain.Membership
	switch {
	case companyID != "":
		found := false
		for _, m := range memberships {
			if m.CompanyID == companyID {
				membership = m
				found = true
				break
			}
		}
		if !found {
			// Selecting a company the user does not belong to looks exactly
			// like selecting a company that does not exist.
			return authz.Actor{}, domain.ErrNotFound
		}
	case len(memberships) == 1:
		membership = memberships[0]
	default:
		return authz.Actor{}, domain.ErrValidation
	}

	actor := authz.Actor{
		UserID:    userID,
		CompanyID: membership.CompanyID,
		Role:      membership.Role,
	}

	if previewRole != "" {
		role, ok := domain.ParseRole(previewRole)
		if !ok {
			return authz.Actor{}, domain.ErrValidation
		}
		actor.PreviewRole = role
	}

	return actor, nil
}

// CreateCompany provisions a new tenant. Operator surface: only app_owner
// may call it.
func (s *DirectoryService) CreateCompany(
	ctx context.Context,
	actor authz.Actor,
	name string,
) (domain.Company, error) {
	log := slogx.FromContext(ctx)

	if actor.Role != domain.RoleAppOwner {
		return domain.Company{}, domain.ErrForbidden
	}
	if name == "" {
		return domain.Company{}, domain.ErrValidation
	}

	company := domain.Company{
		ID:   idx.New().String(),
		Name: name,
	}
	if err := s.Store.Companies().CreateCompany(ctx, company); err != nil {
		log.Error("failed to create company", slog.Any("error", err))
		return domain.Company{}, err
	}

	log.Info("company created",
		slog.String("company_id", company.ID),
		slog.String("name", name),
	)
	return company, nil
}

// ListCompanies enumerates all tenants. Operator surface: only app_owner.
func (s *DirectoryService) ListCompanies(
	ctx context.Context,
	actor authz.Actor,
) ([]domain.Company, error) {
	if actor.Role != domain.RoleAppOwner {
		return nil, domain.ErrForbidden
	}
	return s.Store.Companies().ListCompanies(ctx)
}

// GetCompany returns a company the actor may see: their own, or any for
// app_owner.
func (s *DirectoryService) GetCompany(
	ctx context.Context,
	actor authz.Actor,
	companyID string,
) (domain.Company, error) {
	if actor.Role != domain.RoleAppOwner && companyID != actor.CompanyID {
		return domain.Company{}, domain.ErrNotFound
	}

	company, err := s.Store.Companies().GetCompany(ctx, companyID)
	if err != nil {
		return domain.Company{}, mapStoreErr(err)
	}
	return company, nil
}

// UpdateCompanySettings renames the actor's own company.
func (s *DirectoryService) UpdateCompanySettings(
	ctx context.Context,
	actor authz.Actor,
	companyID, name string,
) error {
	if actor.Role != domain.RoleAppOwner && companyID != actor.CompanyID {
		return domain.ErrNotFound
	}
	if !actor.Can(authz.PermEditCompanySettings) {
		return domain.ErrForbidden
	}
	if name == "" {
		return domain.ErrValidation
	}

	if err := s.Store.Companies().UpdateCompanyName(ctx, companyID, name); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// Member is a membership joined with the directory entry of its user.
type Member struct {
	User domain.User
	Role domain.Role
}

// ListCompanyMembers returns the members of a company the actor may see.
func (s *DirectoryService) ListCompanyMembers(
	ctx context.Context,
	actor authz.Actor,
	companyID string,
) ([]Member, error) {
	if actor.Role != domain.RoleAppOwner && companyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	if !actor.Can(authz.PermViewUsers) {
		return nil, domain.ErrForbidden
	}

	memberships, err := s.Store.Memberships().ListCompanyMembers(ctx, companyID)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(memberships))
	for _, m := range memberships {
		user, err := s.Store.Users().GetUserByID(ctx, m.UserID)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		members = append(members, Member{User: user, Role: m.Role})
	}
	return members, nil
}

// AddMember creates (or reuses) a user and binds them to the company with
// the given role. Holders of only create_readonly_user may add view_only
// members and nothing else.
func (s *DirectoryService) AddMember(
	ctx context.Context,
	actor authz.Actor,
	companyID, email, name string,
	role domain.Role,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if actor.Role != domain.RoleAppOwner && companyID != actor.CompanyID {
		return domain.User{}, domain.ErrNotFound
	}

	switch {
	case actor.Can(authz.PermCreateUser):
		// full member management
	case actor.Can(authz.PermCreateReadonlyUser) && role == domain.RoleViewOnly:
		// limited to read-only members
	default:
		return domain.User{}, domain.ErrForbidden
	}

	if email == "" {
		return domain.User{}, domain.ErrValidation
	}
	if _, ok := domain.ParseRole(string(role)); !ok {
		return domain.User{}, domain.ErrValidation
	}
	// Nobody hands out the operator role through the member API.
	if role == domain.RoleAppOwner {
		return domain.User{}, domain.ErrForbidden
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			user = existing
		case errors.Is(err, store.ErrNotFound):
			user = domain.User{
				ID:    idx.New().String(),
				Email: email,
				Name:  name,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Memberships().CreateMembership(ctx, domain.Membership{
			UserID:    user.ID,
			CompanyID: companyID,
			Role:      role,
		})
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, domain.ErrConflict
		}
		log.Error("failed to add member", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("member added",
		slog.String("user_id", user.ID),
		slog.String("company_id", companyID),
		slog.String("role", string(role)),
	)
	return user, nil
}

// UpdateMemberRole changes the role on an existing membership.
func (s *DirectoryService) UpdateMemberRole(
	ctx context.Context,
	actor authz.Actor,
	companyID, userID string,
	role domain.Role,
) error {
	if actor.Role != domain.RoleAppOwner && companyID != actor.CompanyID {
		return domain.ErrNotFound
	}
	if !actor.Can(authz.PermEditUserRoles) {
		return domain.ErrForbidden
	}
	if _, ok := domain.ParseRole(string(role)); !ok || role == domain.RoleAppOwner {
		return domain.ErrValidation
	}

	if err := s.Store.Memberships().UpdateMembershipRole(ctx, userID, companyID, role); err != nil {
		return mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("member role updated",
		slog.String("user_id", userID),
		slog.String("company_id", companyID),
		slog.String("role", string(role)),
	)
	return nil
}

// RemoveMember drops a user's membership in the company. The user record
// itself stays; they may belong to other tenants.
func (s *DirectoryService) RemoveMember(
	ctx context.Context,
	actor authz.Actor,
	companyID, userID string,
) error {
	if actor.Role != domain.RoleAppOwner && companyID != actor.CompanyID {
		return domain.ErrNotFound
	}
	if !actor.Can(authz.PermDeleteUser) {
		return domain.ErrForbidden
	}

	if err := s.Store.Memberships().DeleteMembership(ctx, userID, companyID); err != nil {
		return mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("member removed",
		slog.String("user_id", userID),
		slog.String("company_id", companyID),
	)
	return nil
}
