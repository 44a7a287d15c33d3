package domain

import "time"

// Status is the coarse lifecycle bucket of an RFI.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// Stage is the fine-grained pipeline position within a status.
type Stage string

const (
	StageSubmitted           Stage = "submitted"
	StageInReview            Stage = "in_review"
	StagePendingResponse     Stage = "pending_response"
	StageFieldWorkInProgress Stage = "field_work_in_progress"
	StageSentToClient        Stage = "sent_to_client"
	StageResponseReceived    Stage = "response_received"
)

// State is a (status, stage) pair. The workflow engine only ever writes
// combinations that appear in its transition table.
type State struct {
	Status Status
	Stage  Stage
}

// RFI is a question/answer record under a project.
type RFI struct {
	ID           string
	ProjectID    string
	Subject      string
	Question     string
	Status       Status
	Stage        Stage
	DueDate      *time.Time
	Response     string
	ResponseDate *time.Time
	AssignedTo   string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// State returns the RFI's current (status, stage) pair.
func (r RFI) State() State {
	return State{Status: r.Status, Stage: r.Stage}
}
