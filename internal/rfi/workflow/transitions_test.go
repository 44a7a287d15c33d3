package workflow_test

import (
	"testing"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/workflow"
	"github.com/stretchr/testify/require"
)

func TestLookupUnknownAction(t *testing.T) {
	t.Parallel()

	_, ok := workflow.Lookup("promote")
	require.False(t, ok)
}

func TestSubmitRequiresSubmitPermission(t *testing.T) {
	t.Parallel()

	tr, ok := workflow.Lookup(workflow.ActionSubmit)
	require.True(t, ok)
	require.Equal(t, authz.PermSubmitRFI, tr.Permission)
	require.Equal(t, domain.StageSentToClient, tr.To.Stage)
}

func TestRespondOnlyFromSentToClient(t *testing.T) {
	t.Parallel()

	tr, ok := workflow.Lookup(workflow.ActionRespond)
	require.True(t, ok)

	require.True(t, tr.Allows(domain.State{
		Status: domain.StatusActive, Stage: domain.StageSentToClient,
	}))
	require.False(t, tr.Allows(domain.State{
		Status: domain.StatusActive, Stage: domain.StageResponseReceived,
	}))
	require.False(t, tr.Allows(domain.State{
		Status: domain.StatusDraft, Stage: domain.StageSubmitted,
	}))
}

func TestClosePreservesStage(t *testing.T) {
	t.Parallel()

	tr, ok := workflow.Lookup(workflow.ActionClose)
	require.True(t, ok)

	cur := domain.State{Status: domain.StatusActive, Stage: domain.StagePendingResponse}
	require.True(t, tr.Allows(cur))

	to := tr.Resolve(cur)
	require.Equal(t, domain.StatusClosed, to.Status)
	require.Equal(t, domain.StagePendingResponse, to.Stage)
}

func TestReopenAllowedFromAnyClosedStage(t *testing.T) {
	t.Parallel()

	tr, ok := workflow.Lookup(workflow.ActionReopen)
	require.True(t, ok)

	for _, stage := range []domain.Stage{
		domain.StageSubmitted, domain.StageInReview, domain.StagePendingResponse,
		domain.StageFieldWorkInProgress, domain.StageSentToClient,
		domain.StageResponseReceived,
	} {
		require.True(t, tr.Allows(domain.State{Status: domain.StatusClosed, Stage: stage}),
			"reopen should accept closed/%s", stage)
	}

	require.False(t, tr.Allows(domain.State{
		Status: domain.StatusActive, Stage: domain.StageInReview,
	}))
}

func TestTransitionTargetsAreWellFormed(t *testing.T) {
	t.Parallel()

	// Every action's resolved target must be a (status, stage) pair the
	// machine recognises as reachable input for some other action or a
	// terminal closed state.
	actions := []workflow.Action{
		workflow.ActionActivate, workflow.ActionBeginFieldWork,
		workflow.ActionAwaitResponse, workflow.ActionSubmit,
		workflow.ActionRespond, workflow.ActionClose, workflow.ActionReopen,
	}

	for _, action := range actions {
		tr, ok := workflow.Lookup(action)
		require.True(t, ok, "action %s missing from table", action)
		require.NotEmpty(t, tr.From, "action %s has no from states", action)
		require.NotEmpty(t, tr.To.Status, "action %s has no target status", action)
		require.NotEmpty(t, tr.Notification, "action %s emits no notification", action)
	}
}
