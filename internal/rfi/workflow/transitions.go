// Package workflow defines the RFI state machine: which (status, stage)
// pairs exist, which named actions move between them, what permission each
// action needs, and what notification a successful move emits. The engine in
// the service layer executes this table; nothing else writes RFI state.
package workflow

import (
	"time"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
)

// Action is a named transition request.
type Action string

const (
	ActionActivate       Action = "activate"
	ActionBeginFieldWork Action = "begin_field_work"
	ActionAwaitResponse  Action = "await_response"
	ActionSubmit         Action = "submit"
	ActionRespond        Action = "respond"
	ActionClose          Action = "close"
	ActionReopen         Action = "reopen"
)

// Aux carries the optional auxiliary data a transition may require.
type Aux struct {
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	Response   string     `json:"response,omitempty"`
}

// AuxKind names the auxiliary-data schema a transition validates against.
type AuxKind int

const (
	AuxNone AuxKind = iota
	// AuxSubmit allows an optional due date and assignee.
	AuxSubmit
	// AuxResponse requires non-empty response text.
	AuxResponse
)

// Transition is one row of the state machine table.
type Transition struct {
	From         []domain.State
	To           domain.State
	Permission   authz.Permission
	Aux          AuxKind
	Notification domain.NotificationType
}

// table is the full transition table. Stage advances in lock-step with
// status through the same row; no other (status, stage) combination is ever
// persisted.
var table = map[Action]Transition{
	ActionActivate: {
		From: []domain.State{
			{Status: domain.StatusDraft, Stage: domain.StageSubmitted},
		},
		To:           domain.State{Status: domain.StatusActive, Stage: domain.StageInReview},
		Permission:   authz.PermEditRFI,
		Notification: domain.NotificationStatusChanged,
	},
	ActionBeginFieldWork: {
		From: []domain.State{
			{Status: domain.StatusActive, Stage: domain.StageInReview},
			{Status: domain.StatusActive, Stage: domain.StagePendingResponse},
		},
		To:           domain.State{Status: domain.StatusActive, Stage: domain.StageFieldWorkInProgress},
		Permission:   authz.PermEditRFI,
		Notification: domain.NotificationStatusChanged,
	},
	ActionAwaitResponse: {
		From: []domain.State{
			{Status: domain.StatusActive, Stage: domain.StageInReview},
			{Status: domain.StatusActive, Stage: domain.StageFieldWorkInProgress},
		},
		To:           domain.State{Status: domain.StatusActive, Stage: domain.StagePendingResponse},
		Permission:   authz.PermEditRFI,
		Notification: domain.NotificationStatusChanged,
	},
	ActionSubmit: {
		From: []domain.State{
			{Status: domain.StatusDraft, Stage: domain.StageSubmitted},
			{Status: domain.StatusActive, Stage: domain.StageInReview},
			{Status: domain.StatusActive, Stage: domain.StagePendingResponse},
			{Status: domain.StatusActive, Stage: domain.StageFieldWorkInProgress},
		},
		To:           domain.State{Status: domain.StatusActive, Stage: domain.StageSentToClient},
		Permission:   authz.PermSubmitRFI,
		Aux:          AuxSubmit,
		Notification: domain.NotificationStatusChanged,
	},
	ActionRespond: {
		From: []domain.State{
			{Status: domain.StatusActive, Stage: domain.StageSentToClient},
		},
		To:           domain.State{Status: domain.StatusActive, Stage: domain.StageResponseReceived},
		Permission:   authz.PermRespondToRFI,
		Aux:          AuxResponse,
		Notification: domain.NotificationResponseReceived,
	},
	ActionClose: {
		From: []domain.State{
			{Status: domain.StatusActive, Stage: domain.StageInReview},
			{Status: domain.StatusActive, Stage: domain.StagePendingResponse},
			{Status: domain.StatusActive, Stage: domain.StageFieldWorkInProgress},
			{Status: domain.StatusActive, Stage: domain.StageSentToClient},
			{Status: domain.StatusActive, Stage: domain.StageResponseReceived},
		},
		// Closing preserves the stage the RFI was in; an empty To stage
		// means "keep current".
		To:           domain.State{Status: domain.StatusClosed},
		Permission:   authz.PermCloseRFI,
		Notification: domain.NotificationStatusChanged,
	},
	ActionReopen: {
		From: closedStates(),
		To:           domain.State{Status: domain.StatusActive, Stage: domain.StageInReview},
		Permission:   authz.PermEditRFI,
		Notification: domain.NotificationStatusChanged,
	},
}

// closedStates enumerates closed paired with every stage, since closing
// preserves whatever stage the RFI had reached.
func closedStates() []domain.State {
	stages := []domain.Stage{
		domain.StageSubmitted, domain.StageInReview, domain.StagePendingResponse,
		domain.StageFieldWorkInProgress, domain.StageSentToClient,
		domain.StageResponseReceived,
	}
	states := make([]domain.State, len(stages))
	for i, st := range stages {
		states[i] = domain.State{Status: domain.StatusClosed, Stage: st}
	}
	return states
}

// Resolve computes the concrete target state when leaving cur through t. An
// empty To stage keeps the current stage.
func (t Transition) Resolve(cur domain.State) domain.State {
	to := t.To
	if to.Stage == "" {
		to.Stage = cur.Stage
	}
	return to
}

// Lookup returns the transition for an action, and false for unknown
// actions.
func Lookup(action Action) (Transition, bool) {
	t, ok := table[action]
	return t, ok
}

// Allows reports whether the transition accepts cur as a starting state.
func (t Transition) Allows(cur domain.State) bool {
	for _, from := range t.From {
		if from == cur {
			return true
		}
	}
	return false
}
