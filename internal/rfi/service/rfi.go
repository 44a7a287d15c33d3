package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/notify"
	"github.com/buildvane/rfihub/internal/rfi/obs"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/internal/rfi/workflow"
	"github.com/buildvane/rfihub/pkg/idx"
	"github.com/buildvane/rfihub/pkg/slogx"
)

// RFIService owns the RFI lifecycle: creation, content edits, the workflow
// engine, and the derived read views.
type RFIService struct {
	Store   store.Store
	Emitter notify.Emitter

	// Now is the clock; overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *RFIService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RFIView is an RFI plus its derived fields. Overdue is computed at read
// time, never stored.
type RFIView struct {
	domain.RFI
	Overdue bool
}

func (s *RFIService) view(r domain.RFI) RFIView {
	return RFIView{RFI: r, Overdue: workflow.IsOverdue(r, s.now())}
}

// CreateRFI creates a draft RFI under a project the actor can see. New RFIs
// always start at (draft, submitted).
func (s *RFIService) CreateRFI(
	ctx context.Context,
	actor authz.Actor,
	projectID, subject, question string,
) (RFIView, error) {
	log := slogx.FromContext(ctx)

	if !actor.Can(authz.PermCreateRFI) {
		return RFIView{}, domain.ErrForbidden
	}
	if subject == "" || question == "" {
		return RFIView{}, domain.ErrValidation
	}

	rfi := domain.RFI{
		ID:        idx.New().String(),
		ProjectID: projectID,
		Subject:   subject,
		Question:  question,
		Status:    domain.StatusDraft,
		Stage:     domain.StageSubmitted,
		CreatedBy: actor.UserID,
	}
	if err := s.Store.RFIs().CreateRFI(ctx, authz.ScopeFor(actor), rfi); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Unknown project and another tenant's project read the same.
			return RFIView{}, domain.ErrNotFound
		}
		log.Error("failed to create rfi", slog.Any("error", err))
		return RFIView{}, err
	}

	log.Info("rfi created",
		slog.String("rfi_id", rfi.ID),
		slog.String("project_id", projectID),
	)
	return s.view(rfi), nil
}

func (s *RFIService) GetRFI(
	ctx context.Context,
	actor authz.Actor,
	id string,
) (RFIView, error) {
	if !actor.Can(authz.PermViewRFIs) {
		return RFIView{}, domain.ErrForbidden
	}

	rfi, err := s.Store.RFIs().GetRFI(ctx, authz.ScopeFor(actor), id)
	if err != nil {
		return RFIView{}, mapStoreErr(err)
	}
	return s.view(rfi), nil
}

func (s *RFIService) ListProjectRFIs(
	ctx context.Context,
	actor authz.Actor,
	projectID string,
) ([]RFIView, error) {
	if !actor.Can(authz.PermViewRFIs) {
		return nil, domain.ErrForbidden
	}

	sc := authz.ScopeFor(actor)
	// The scoped project read doubles as the existence check, so listing
	// under a foreign project is NotFound rather than an empty page.
	if _, err := s.Store.Projects().GetProject(ctx, sc, projectID); err != nil {
		return nil, mapStoreErr(err)
	}

	rfis, err := s.Store.RFIs().ListProjectRFIs(ctx, sc, projectID)
	if err != nil {
		return nil, err
	}

	views := make([]RFIView, len(rfis))
	for i, r := range rfis {
		views[i] = s.view(r)
	}
	return views, nil
}

// ListRFINotifications returns the event history for an RFI the actor can
// see, newest first.
func (s *RFIService) ListRFINotifications(
	ctx context.Context,
	actor authz.Actor,
	id string,
) ([]domain.NotificationEvent, error) {
	if !actor.Can(authz.PermViewRFIs) {
		return nil, domain.ErrForbidden
	}

	sc := authz.ScopeFor(actor)
	if _, err := s.Store.RFIs().GetRFI(ctx, sc, id); err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Store.Notifications().ListRFINotifications(ctx, sc, id)
}

// UpdateRFI edits subject and question. Content edits do not move workflow
// state.
func (s *RFIService) UpdateRFI(
	ctx context.Context,
	actor authz.Actor,
	id, subject, question string,
) (RFIView, error) {
	if !actor.Can(authz.PermEditRFI) {
		return RFIView{}, domain.ErrForbidden
	}
	if subject == "" || question == "" {
		return RFIView{}, domain.ErrValidation
	}

	sc := authz.ScopeFor(actor)
	rfi, err := s.Store.RFIs().GetRFI(ctx, sc, id)
	if err != nil {
		return RFIView{}, mapStoreErr(err)
	}
	// A closed RFI is part of the record; reopen it to edit.
	if rfi.Status == domain.StatusClosed {
		return RFIView{}, domain.ErrConflict
	}

	if err := s.Store.RFIs().UpdateRFIContent(ctx, sc, id, subject, question); err != nil {
		return RFIView{}, mapStoreErr(err)
	}

	rfi, err = s.Store.RFIs().GetRFI(ctx, sc, id)
	if err != nil {
		return RFIView{}, mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("rfi updated", slog.String("rfi_id", id))
	return s.view(rfi), nil
}

// DeleteRFI removes a draft. Anything past draft is part of the project
// record and can only be closed.
func (s *RFIService) DeleteRFI(
	ctx context.Context,
	actor authz.Actor,
	id string,
) error {
	if !actor.Can(authz.PermDeleteRFI) {
		return domain.ErrForbidden
	}

	sc := authz.ScopeFor(actor)
	rfi, err := s.Store.RFIs().GetRFI(ctx, sc, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if rfi.Status != domain.StatusDraft {
		return domain.ErrConflict
	}

	if err := s.Store.RFIs().DeleteRFI(ctx, sc, id); err != nil {
		return mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("rfi deleted", slog.String("rfi_id", id))
	return nil
}

// Transition executes a named workflow action against an RFI.
//
// Order of checks matters: visibility before permission (foreign RFIs are
// NotFound, never Forbidden), permission before state (a denied caller
// learns nothing about where the RFI is), then aux validation, then the
// compare-and-set write. A failed compare-and-set means a concurrent writer
// moved the RFI first and surfaces as Conflict with nothing changed.
func (s *RFIService) Transition(
	ctx context.Context,
	actor authz.Actor,
	id string,
	action workflow.Action,
	aux workflow.Aux,
) (RFIView, error) {
	log := slogx.FromContext(ctx)

	t, ok := workflow.Lookup(action)
	if !ok {
		obs.TransitionAttempt(string(action), "validation")
		return RFIView{}, domain.ErrValidation
	}

	// 1. Scoped read. Establishes visibility and the expected current state
	//    in one step.
	sc := authz.ScopeFor(actor)
	rfi, err := s.Store.RFIs().GetRFI(ctx, sc, id)
	if err != nil {
		obs.TransitionAttempt(string(action), "error")
		return RFIView{}, mapStoreErr(err)
	}

	// 2. Permission gate.
	if !actor.Can(t.Permission) {
		obs.TransitionAttempt(string(action), "forbidden")
		return RFIView{}, domain.ErrForbidden
	}

	// 3. From-state check against the snapshot we just read.
	cur := rfi.State()
	if !t.Allows(cur) {
		obs.TransitionAttempt(string(action), "conflict")
		return RFIView{}, domain.ErrConflict
	}

	// 4. Auxiliary data validation.
	change, err := buildStateChange(t, cur, aux, s.now())
	if err != nil {
		obs.TransitionAttempt(string(action), "validation")
		return RFIView{}, err
	}

	// 5. Compare-and-set. The write only lands if the stored state still
	//    equals the snapshot; a concurrent transition wins the race cleanly.
	swapped, err := s.Store.RFIs().ApplyStateChange(ctx, sc, id, change)
	if err != nil {
		obs.TransitionAttempt(string(action), "error")
		log.Error("failed to apply state change",
			slog.String("rfi_id", id),
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
		return RFIView{}, err
	}
	if !swapped {
		obs.TransitionAttempt(string(action), "conflict")
		return RFIView{}, domain.ErrConflict
	}

	obs.TransitionAttempt(string(action), "ok")
	log.Info("rfi transitioned",
		slog.String("rfi_id", id),
		slog.String("action", string(action)),
		slog.String("from", string(cur.Status)+"/"+string(cur.Stage)),
		slog.String("to", string(change.To.Status)+"/"+string(change.To.Stage)),
	)

	// 6. Fire-and-forget notification. Delivery never affects the outcome.
	if s.Emitter != nil {
		s.Emitter.Emit(ctx, domain.NotificationEvent{
			ID:              idx.New().String(),
			RFIID:           id,
			Type:            t.Notification,
			PerformedBy:     actor.UserID,
			PerformedByType: domain.PerformedByUser,
			FromStatus:      cur.Status,
			ToStatus:        change.To.Status,
			Reason:          string(action),
		})
	}

	rfi, err = s.Store.RFIs().GetRFI(ctx, sc, id)
	if err != nil {
		return RFIView{}, mapStoreErr(err)
	}
	return s.view(rfi), nil
}

// buildStateChange validates aux against the transition's schema and
// assembles the compare-and-set payload.
func buildStateChange(
	t workflow.Transition,
	cur domain.State,
	aux workflow.Aux,
	now time.Time,
) (store.RFIStateChange, error) {
	change := store.RFIStateChange{
		From: cur,
		To:   t.Resolve(cur),
	}

	switch t.Aux {
	case workflow.AuxNone:
		if aux.DueDate != nil || aux.AssignedTo != "" || aux.Response != "" {
			return store.RFIStateChange{}, domain.ErrValidation
		}
	case workflow.AuxSubmit:
		if aux.Response != "" {
			return store.RFIStateChange{}, domain.ErrValidation
		}
		if aux.DueDate != nil {
			due := aux.DueDate.UTC()
			change.SetDueDate = &due
		}
		if aux.AssignedTo != "" {
			assignee := aux.AssignedTo
			change.SetAssignedTo = &assignee
		}
	case workflow.AuxResponse:
		if aux.Response == "" || aux.DueDate != nil || aux.AssignedTo != "" {
			return store.RFIStateChange{}, domain.ErrValidation
		}
		response := aux.Response
		responseAt := now.UTC()
		change.SetResponse = &response
		change.SetResponseDate = &responseAt
	}

	return change, nil
}
