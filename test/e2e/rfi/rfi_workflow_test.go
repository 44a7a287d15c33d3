package rfi_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

func TestWorkflowEndToEnd(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	admin, _ := env.seedMember(t, "Acme Construction", domain.RoleAdmin)

	project, err := admin.CreateProject(ctx, rfisdk.CreateProjectRequest{
		Name:              "Harbour Bridge Upgrade",
		ClientCompanyName: "Port Authority",
	})
	require.NoError(t, err)

	rfi, err := admin.CreateRFI(ctx, project.ID, rfisdk.CreateRFIRequest{
		Subject:  "Deck drainage",
		Question: "Confirm drainage falls across the deck.",
	})
	require.NoError(t, err)
	require.Equal(t, "draft", rfi.Status)
	require.Equal(t, "submitted", rfi.Stage)

	due := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second)
	rfi, err = admin.Transition(ctx, rfi.ID, rfisdk.TransitionRequest{
		Action:     "submit",
		DueDate:    &due,
		AssignedTo: "engineer@portauthority.test",
	})
	require.NoError(t, err)
	require.Equal(t, "active", rfi.Status)
	require.Equal(t, "sent_to_client", rfi.Stage)

	rfi, err = admin.Transition(ctx, rfi.ID, rfisdk.TransitionRequest{
		Action:   "respond",
		Response: "Falls are 1:100 towards the east scuppers.",
	})
	require.NoError(t, err)
	require.Equal(t, "response_received", rfi.Stage)

	rfi, err = admin.Transition(ctx, rfi.ID, rfisdk.TransitionRequest{Action: "close"})
	require.NoError(t, err)
	require.Equal(t, "closed", rfi.Status)
	require.Equal(t, "response_received", rfi.Stage)

	// The event trail made it through the async dispatcher.
	require.Eventually(t, func() bool {
		events, err := admin.ListRFINotifications(ctx, rfi.ID)
		return err == nil && len(events.Notifications) >= 3
	}, 2*time.Second, 20*time.Millisecond)
}

func TestForbiddenActionLeavesDraftUntouched(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	admin, actor := env.seedMember(t, "Acme Construction", domain.RoleAdmin)
	drafter, _ := env.seedMemberIn(t, actor.CompanyID, domain.RoleRFIUser)

	project, err := admin.CreateProject(ctx, rfisdk.CreateProjectRequest{Name: "Depot Refit"})
	require.NoError(t, err)

	rfi, err := drafter.CreateRFI(ctx, project.ID, rfisdk.CreateRFIRequest{
		Subject:  "Mezzanine loading",
		Question: "Confirm the mezzanine design load.",
	})
	require.NoError(t, err)

	// The drafter's role cannot send RFIs to the client.
	_, err = drafter.Transition(ctx, rfi.ID, rfisdk.TransitionRequest{Action: "submit"})
	require.True(t, rfisdk.IsForbidden(err), "expected 403, got %v", err)

	got, err := admin.GetRFI(ctx, rfi.ID)
	require.NoError(t, err)
	require.Equal(t, "draft", got.Status)
	require.Equal(t, "submitted", got.Stage)
}

func TestCrossTenantIsolation(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	acme, _ := env.seedMember(t, "Acme Construction", domain.RoleSuperAdmin)
	rival, _ := env.seedMember(t, "Rival Builders", domain.RoleSuperAdmin)

	project, err := acme.CreateProject(ctx, rfisdk.CreateProjectRequest{Name: "Private Works"})
	require.NoError(t, err)
	rfi, err := acme.CreateRFI(ctx, project.ID, rfisdk.CreateRFIRequest{
		Subject:  "Confidential",
		Question: "Internal only.",
	})
	require.NoError(t, err)

	// Full permissions in the wrong company read as 404, never 403.
	_, err = rival.GetProject(ctx, project.ID)
	require.True(t, rfisdk.IsNotFound(err), "expected 404, got %v", err)

	_, err = rival.GetRFI(ctx, rfi.ID)
	require.True(t, rfisdk.IsNotFound(err), "expected 404, got %v", err)

	_, err = rival.Transition(ctx, rfi.ID, rfisdk.TransitionRequest{Action: "submit"})
	require.True(t, rfisdk.IsNotFound(err), "expected 404, got %v", err)

	list, err := rival.ListProjects(ctx)
	require.NoError(t, err)
	require.Empty(t, list.Projects)
}

func TestStaleTransitionConflicts(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	admin, _ := env.seedMember(t, "Acme Construction", domain.RoleAdmin)

	project, err := admin.CreateProject(ctx, rfisdk.CreateProjectRequest{Name: "Substation"})
	require.NoError(t, err)
	rfi, err := admin.CreateRFI(ctx, project.ID, rfisdk.CreateRFIRequest{
		Subject:  "Cable tray route",
		Question: "Confirm the cable tray route through gridline C.",
	})
	require.NoError(t, err)

	_, err = admin.Transition(ctx, rfi.ID, rfisdk.TransitionRequest{Action: "submit"})
	require.NoError(t, err)

	// A client still holding the draft view asks to activate it.
	_, err = admin.Transition(ctx, rfi.ID, rfisdk.TransitionRequest{Action: "activate"})
	require.True(t, rfisdk.IsConflict(err), "expected 409, got %v", err)

	got, err := admin.GetRFI(ctx, rfi.ID)
	require.NoError(t, err)
	require.Equal(t, "sent_to_client", got.Stage)
}

func TestHealthEndpoints(t *testing.T) {
	ctx := context.Background()
	env := setupServer(t)

	client := rfisdk.NewClient(env.Server.URL)

	resp, err := client.HTTPClient.Get(env.Server.URL + "/livez")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	resp, err = client.HTTPClient.Get(env.Server.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	// Authenticated endpoints reject missing tokens.
	_, err = client.ListProjects(ctx)
	require.Error(t, err)
}
