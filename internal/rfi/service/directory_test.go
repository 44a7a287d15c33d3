package service

import (
	"context"
	"testing"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/stretchr/testify/require"
)

func TestResolveActor(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DirectoryService{Store: st}

	member := seedActor(t, st, "Acme Construction", domain.RoleAdmin)

	t.Run("single membership needs no company hint", func(t *testing.T) {
		actor, err := svc.ResolveActor(ctx, member.UserID, "", "")
		require.NoError(t, err)
		require.Equal(t, member.CompanyID, actor.CompanyID)
		require.Equal(t, domain.RoleAdmin, actor.Role)
	})

	t.Run("explicit company must match a membership", func(t *testing.T) {
		actor, err := svc.ResolveActor(ctx, member.UserID, member.CompanyID, "")
		require.NoError(t, err)
		require.Equal(t, member.CompanyID, actor.CompanyID)

		other := seedActor(t, st, "Rival Builders", domain.RoleAdmin)
		_, err = svc.ResolveActor(ctx, member.UserID, other.CompanyID, "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ResolveActor(ctx, "no-such-user", "", "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("preview role narrows but never widens", func(t *testing.T) {
		actor, err := svc.ResolveActor(ctx, member.UserID, "", string(domain.RoleViewOnly))
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, actor.Role)
		require.Equal(t, domain.RoleViewOnly, actor.PreviewRole)

		// The real role still decides enforcement.
		require.True(t, actor.Can(authz.PermCreateRFI))
		// The preview reflects the narrowed capability set.
		require.False(t, actor.Preview(authz.PermCreateRFI))
		require.True(t, actor.Preview(authz.PermViewRFIs))
	})

	t.Run("invalid preview role is rejected", func(t *testing.T) {
		_, err := svc.ResolveActor(ctx, member.UserID, "", "root")
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestMemberAdministration(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DirectoryService{Store: st}

	admin := seedActor(t, st, "Acme Construction", domain.RoleAdmin)

	user, err := svc.AddMember(ctx, admin, admin.CompanyID, "drafter@acme.test", "Dee Drafter", domain.RoleRFIUser)
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	// Adding the same person twice conflicts.
	_, err = svc.AddMember(ctx, admin, admin.CompanyID, "drafter@acme.test", "Dee Drafter", domain.RoleRFIUser)
	require.ErrorIs(t, err, domain.ErrConflict)

	members, err := svc.ListCompanyMembers(ctx, admin, admin.CompanyID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	require.NoError(t, svc.UpdateMemberRole(ctx, admin, admin.CompanyID, user.ID, domain.RoleViewOnly))

	membership, err := st.Memberships().GetMembership(ctx, user.ID, admin.CompanyID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleViewOnly, membership.Role)

	require.NoError(t, svc.RemoveMember(ctx, admin, admin.CompanyID, user.ID))

	members, err = svc.ListCompanyMembers(ctx, admin, admin.CompanyID)
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestMemberAdministrationGuards(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DirectoryService{Store: st}

	admin := seedActor(t, st, "Acme Construction", domain.RoleAdmin)

	t.Run("operator role is never grantable", func(t *testing.T) {
		_, err := svc.AddMember(ctx, admin, admin.CompanyID, "owner@acme.test", "O", domain.RoleAppOwner)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, err := svc.AddMember(ctx, admin, admin.CompanyID, "x@acme.test", "X", domain.Role("contractor"))
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("roles without member management cannot add members", func(t *testing.T) {
		rfiUser := seedActorInCompany(t, st, admin.CompanyID, domain.RoleRFIUser)

		_, err := svc.AddMember(ctx, rfiUser, admin.CompanyID, "peer@acme.test", "P", domain.RoleRFIUser)
		require.ErrorIs(t, err, domain.ErrForbidden)
		_, err = svc.AddMember(ctx, rfiUser, admin.CompanyID, "viewer2@acme.test", "V", domain.RoleViewOnly)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("other tenants read as missing", func(t *testing.T) {
		outsider := seedActor(t, st, "Rival Builders", domain.RoleSuperAdmin)

		_, err := svc.ListCompanyMembers(ctx, outsider, admin.CompanyID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		_, err = svc.AddMember(ctx, outsider, admin.CompanyID, "spy@rival.test", "S", domain.RoleAdmin)
		require.ErrorIs(t, err, domain.ErrNotFound)
		err = svc.RemoveMember(ctx, outsider, admin.CompanyID, admin.UserID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("company creation is operator only", func(t *testing.T) {
		_, err := svc.CreateCompany(ctx, admin, "Shadow Co")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestDeleteOwnProject(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	superAdmin := seedActor(t, st, "Acme Construction", domain.RoleSuperAdmin)
	admin := seedActorInCompany(t, st, superAdmin.CompanyID, domain.RoleAdmin)

	projects := &ProjectService{Store: st}

	mine, err := projects.CreateProject(ctx, admin, "Admin's project", "")
	require.NoError(t, err)
	theirs, err := projects.CreateProject(ctx, superAdmin, "Super admin's project", "")
	require.NoError(t, err)

	// delete_own_project covers the creator's own projects only.
	require.ErrorIs(t, projects.DeleteProject(ctx, admin, theirs.ID), domain.ErrForbidden)
	require.NoError(t, projects.DeleteProject(ctx, admin, mine.ID))

	// delete_project covers everything in the tenant.
	require.NoError(t, projects.DeleteProject(ctx, superAdmin, theirs.ID))
}
