package domain

import "time"

// NotificationType names the trigger that produced an event.
type NotificationType string

const (
	NotificationStatusChanged    NotificationType = "status_changed"
	NotificationLinkGenerated    NotificationType = "link_generated"
	NotificationResponseReceived NotificationType = "response_received"
)

// PerformedByType distinguishes tenant-user actions from external responder
// actions in the event history.
type PerformedByType string

const (
	PerformedByUser   PerformedByType = "user"
	PerformedByClient PerformedByType = "client"
)

// NotificationEvent is the audit/trigger record handed to the dispatcher
// after a successful workflow action.
type NotificationEvent struct {
	ID              string
	RFIID           string
	Type            NotificationType
	PerformedBy     string
	PerformedByType PerformedByType
	FromStatus      Status
	ToStatus        Status
	Reason          string
	CreatedAt       time.Time
}
