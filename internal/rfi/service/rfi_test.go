package service

import (
	"context"
	"testing"
	"time"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/internal/rfi/store/drivers/sqlite"
	"github.com/buildvane/rfihub/internal/rfi/workflow"
	"github.com/buildvane/rfihub/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// seedActor creates a company, a user, and the membership binding them,
// returning the resolved actor.
func seedActor(t *testing.T, st store.Store, companyName string, role domain.Role) authz.Actor {
	t.Helper()
	ctx := context.Background()

	company := domain.Company{ID: idx.New().String(), Name: companyName}
	require.NoError(t, st.Companies().CreateCompany(ctx, company))

	user := domain.User{
		ID:    idx.New().String(),
		Email: idx.New().String() + "@example.test",
		Name:  "Test User",
	}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	require.NoError(t, st.Memberships().CreateMembership(ctx, domain.Membership{
		UserID:    user.ID,
		CompanyID: company.ID,
		Role:      role,
	}))

	return authz.Actor{UserID: user.ID, CompanyID: company.ID, Role: role}
}

func seedProject(t *testing.T, st store.Store, actor authz.Actor) domain.Project {
	t.Helper()

	project := domain.Project{
		ID:        idx.New().String(),
		CompanyID: actor.CompanyID,
		Name:      "Tower Block A",
		CreatedBy: actor.UserID,
	}
	require.NoError(t, st.Projects().CreateProject(context.Background(), project))
	return project
}

func TestRFILifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	admin := seedActor(t, st, "Acme Construction", domain.RoleAdmin)
	project := seedProject(t, st, admin)

	svc := &RFIService{Store: st}

	rfi, err := svc.CreateRFI(ctx, admin, project.ID, "Slab thickness", "Confirm the slab thickness for level 3.")
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, rfi.Status)
	require.Equal(t, domain.StageSubmitted, rfi.Stage)
	require.False(t, rfi.Overdue)

	rfi, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionActivate, workflow.Aux{})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, rfi.Status)
	require.Equal(t, domain.StageInReview, rfi.Stage)

	rfi, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionBeginFieldWork, workflow.Aux{})
	require.NoError(t, err)
	require.Equal(t, domain.StageFieldWorkInProgress, rfi.Stage)

	due := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	rfi, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionSubmit, workflow.Aux{
		DueDate:    &due,
		AssignedTo: "site.engineer@client.test",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StageSentToClient, rfi.Stage)
	require.NotNil(t, rfi.DueDate)
	require.Equal(t, due, rfi.DueDate.UTC())
	require.Equal(t, "site.engineer@client.test", rfi.AssignedTo)

	rfi, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionRespond, workflow.Aux{
		Response: "Slab is 250mm as per drawing S-301 rev C.",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StageResponseReceived, rfi.Stage)
	require.NotEmpty(t, rfi.Response)
	require.NotNil(t, rfi.ResponseDate)

	// Closing keeps the stage the RFI was in.
	rfi, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionClose, workflow.Aux{})
	require.NoError(t, err)
	require.Equal(t, domain.StatusClosed, rfi.Status)
	require.Equal(t, domain.StageResponseReceived, rfi.Stage)

	// Reopen lands back in review regardless of where it closed.
	rfi, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionReopen, workflow.Aux{})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, rfi.Status)
	require.Equal(t, domain.StageInReview, rfi.Stage)
}

func TestTransitionWithoutPermissionLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	admin := seedActor(t, st, "Acme Construction", domain.RoleAdmin)
	project := seedProject(t, st, admin)

	svc := &RFIService{Store: st}

	rfi, err := svc.CreateRFI(ctx, admin, project.ID, "Rebar spacing", "Check rebar spacing on grid line 4.")
	require.NoError(t, err)

	// Same company, but a role without the submit permission.
	drafter := seedActorInCompany(t, st, admin.CompanyID, domain.RoleRFIUser)

	_, err = svc.Transition(ctx, drafter, rfi.ID, workflow.ActionSubmit, workflow.Aux{})
	require.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.GetRFI(ctx, admin, rfi.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, got.Status)
	require.Equal(t, domain.StageSubmitted, got.Stage)
}

func TestCrossTenantAccessIsNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	owner := seedActor(t, st, "Acme Construction", domain.RoleSuperAdmin)
	project := seedProject(t, st, owner)

	svc := &RFIService{Store: st}
	rfi, err := svc.CreateRFI(ctx, owner, project.ID, "Ceiling grid", "Confirm ceiling grid layout.")
	require.NoError(t, err)

	// Full permissions, wrong company. Every operation reads as NotFound,
	// never Forbidden.
	outsider := seedActor(t, st, "Rival Builders", domain.RoleSuperAdmin)

	_, err = svc.GetRFI(ctx, outsider, rfi.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Transition(ctx, outsider, rfi.ID, workflow.ActionActivate, workflow.Aux{})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ListProjectRFIs(ctx, outsider, project.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.DeleteRFI(ctx, outsider, rfi.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	projects := &ProjectService{Store: st}
	_, err = projects.GetProject(ctx, outsider, project.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransitionStaleStateConflicts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	admin := seedActor(t, st, "Acme Construction", domain.RoleAdmin)
	project := seedProject(t, st, admin)

	svc := &RFIService{Store: st}
	rfi, err := svc.CreateRFI(ctx, admin, project.ID, "Drainage falls", "Confirm falls to floor waste.")
	require.NoError(t, err)

	// An action whose from-set does not include the current state conflicts.
	_, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionRespond, workflow.Aux{Response: "n/a"})
	require.ErrorIs(t, err, domain.ErrConflict)

	// A compare-and-set racing against a state that already moved writes
	// nothing.
	swapped, err := st.RFIs().ApplyStateChange(ctx, authz.ScopeFor(admin), rfi.ID, store.RFIStateChange{
		From: domain.State{Status: domain.StatusActive, Stage: domain.StageInReview},
		To:   domain.State{Status: domain.StatusActive, Stage: domain.StageSentToClient},
	})
	require.NoError(t, err)
	require.False(t, swapped)

	got, err := svc.GetRFI(ctx, admin, rfi.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, got.Status)
}

func TestTransitionAuxValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	admin := seedActor(t, st, "Acme Construction", domain.RoleAdmin)
	project := seedProject(t, st, admin)

	svc := &RFIService{Store: st}
	rfi, err := svc.CreateRFI(ctx, admin, project.ID, "Window schedule", "Confirm window schedule revision.")
	require.NoError(t, err)

	// Extra aux on an action that takes none.
	_, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionActivate, workflow.Aux{Response: "unexpected"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionSubmit, workflow.Aux{})
	require.NoError(t, err)

	// Respond without text.
	_, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionRespond, workflow.Aux{})
	require.ErrorIs(t, err, domain.ErrValidation)

	// Unknown action.
	_, err = svc.Transition(ctx, admin, rfi.ID, workflow.Action("escalate"), workflow.Aux{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestOverdueIsDerivedAtReadTime(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	admin := seedActor(t, st, "Acme Construction", domain.RoleAdmin)
	project := seedProject(t, st, admin)

	svc := &RFIService{Store: st}
	rfi, err := svc.CreateRFI(ctx, admin, project.ID, "Fire rating", "Confirm fire rating of shaft walls.")
	require.NoError(t, err)

	created, err := st.RFIs().GetRFI(ctx, authz.ScopeFor(admin), rfi.ID)
	require.NoError(t, err)

	// Within the response window: not overdue.
	svc.Now = func() time.Time { return created.CreatedAt.Add(24 * time.Hour) }
	got, err := svc.GetRFI(ctx, admin, rfi.ID)
	require.NoError(t, err)
	require.False(t, got.Overdue)

	// Well past five business days: overdue, with nothing written back.
	svc.Now = func() time.Time { return created.CreatedAt.Add(14 * 24 * time.Hour) }
	got, err = svc.GetRFI(ctx, admin, rfi.ID)
	require.NoError(t, err)
	require.True(t, got.Overdue)

	// A responded RFI is never overdue no matter how old.
	_, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionSubmit, workflow.Aux{})
	require.NoError(t, err)
	got, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionRespond, workflow.Aux{Response: "Two hour rating."})
	require.NoError(t, err)
	require.False(t, got.Overdue)
}

func TestDeleteRFIDraftOnly(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	admin := seedActor(t, st, "Acme Construction", domain.RoleAdmin)
	project := seedProject(t, st, admin)

	svc := &RFIService{Store: st}
	rfi, err := svc.CreateRFI(ctx, admin, project.ID, "Door hardware", "Confirm door hardware set 3.")
	require.NoError(t, err)

	_, err = svc.Transition(ctx, admin, rfi.ID, workflow.ActionActivate, workflow.Aux{})
	require.NoError(t, err)

	err = svc.DeleteRFI(ctx, admin, rfi.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	draft, err := svc.CreateRFI(ctx, admin, project.ID, "Scratch", "Draft to be discarded.")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRFI(ctx, admin, draft.ID))

	_, err = svc.GetRFI(ctx, admin, draft.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// seedActorInCompany adds a fresh user to an existing company.
func seedActorInCompany(t *testing.T, st store.Store, companyID string, role domain.Role) authz.Actor {
	t.Helper()
	ctx := context.Background()

	user := domain.User{
		ID:    idx.New().String(),
		Email: idx.New().String() + "@example.test",
		Name:  "Second User",
	}
	require.NoError(t, st.Users().CreateUser(ctx, user))
	require.NoError(t, st.Memberships().CreateMembership(ctx, domain.Membership{
		UserID:    user.ID,
		CompanyID: companyID,
		Role:      role,
	}))

	return authz.Actor{UserID: user.ID, CompanyID: companyID, Role: role}
}
