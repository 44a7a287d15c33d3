package notify

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/internal/rfi/store/drivers/sqlite"
	"github.com/buildvane/rfihub/pkg/idx"
	"github.com/stretchr/testify/require"
)

func seedRFI(t *testing.T, st store.Store) domain.RFI {
	t.Helper()
	ctx := context.Background()

	company := domain.Company{ID: idx.New().String(), Name: "Acme Construction"}
	require.NoError(t, st.Companies().CreateCompany(ctx, company))

	user := domain.User{ID: idx.New().String(), Email: "seed@example.test"}
	require.NoError(t, st.Users().CreateUser(ctx, user))

	project := domain.Project{
		ID:        idx.New().String(),
		CompanyID: company.ID,
		Name:      "Test Project",
		CreatedBy: user.ID,
	}
	require.NoError(t, st.Projects().CreateProject(ctx, project))

	rfi := domain.RFI{
		ID:        idx.New().String(),
		ProjectID: project.ID,
		Subject:   "Subject",
		Question:  "Question",
		Status:    domain.StatusActive,
		Stage:     domain.StageSentToClient,
		CreatedBy: user.ID,
	}
	require.NoError(t, st.RFIs().CreateRFI(ctx, store.TenantScope(company.ID), rfi))

	return rfi
}

func TestDispatcherRecordsEvents(t *testing.T) {
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	rfi := seedRFI(t, st)

	d := NewDispatcher(st, slog.New(slog.DiscardHandler), 8)
	d.Start()

	d.Emit(ctx, domain.NotificationEvent{
		RFIID:           rfi.ID,
		Type:            domain.NotificationStatusChanged,
		PerformedBy:     "someone",
		PerformedByType: domain.PerformedByUser,
		FromStatus:      domain.StatusDraft,
		ToStatus:        domain.StatusActive,
		Reason:          "activate",
	})
	d.Emit(ctx, domain.NotificationEvent{
		RFIID:           rfi.ID,
		Type:            domain.NotificationResponseReceived,
		PerformedByType: domain.PerformedByClient,
	})

	// Stop drains the queue, so both events are durable afterwards.
	d.Stop()

	events, err := st.Notifications().ListRFINotifications(ctx, store.TenantScope(rfiCompany(t, st, rfi)), rfi.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	for _, e := range events {
		require.NotEmpty(t, e.ID)
		require.False(t, e.CreatedAt.IsZero())
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	rfi := seedRFI(t, st)

	// Worker never started: the queue only fills.
	d := NewDispatcher(st, slog.New(slog.DiscardHandler), 1)

	d.Emit(ctx, domain.NotificationEvent{RFIID: rfi.ID, Type: domain.NotificationStatusChanged, PerformedByType: domain.PerformedByUser})

	// Must return promptly instead of blocking the caller.
	done := make(chan struct{})
	go func() {
		d.Emit(ctx, domain.NotificationEvent{RFIID: rfi.ID, Type: domain.NotificationStatusChanged, PerformedByType: domain.PerformedByUser})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full queue")
	}
}

// rfiCompany walks the rfi back to its owning company for scoped reads.
func rfiCompany(t *testing.T, st store.Store, rfi domain.RFI) string {
	t.Helper()

	project, err := st.Projects().GetProject(context.Background(), store.GlobalScope(), rfi.ProjectID)
	require.NoError(t, err)
	return project.CompanyID
}
