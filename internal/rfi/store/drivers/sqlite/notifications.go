package sqlite

import (
	"context"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
)

type notificationsRepo struct {
	db dbtx
}

func (r *notificationsRepo) CreateNotification(
	ctx context.Context,
	n domain.NotificationEvent,
) error {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, rfi_id, type, performed_by, performed_by_type,
		                            from_status, to_status, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.RFIID, string(n.Type), n.PerformedBy, string(n.PerformedByType),
		string(n.FromStatus), string(n.ToStatus), n.Reason, createdAt,
	)
	return err
}

func (r *notificationsRepo) ListRFINotifications(
	ctx context.Context,
	sc store.Scope,
	rfiID string,
) ([]domain.NotificationEvent, error) {
	clause, scopeArgs := rfiClause(sc)
	args := append([]any{rfiID}, scopeArgs...)

	rows, err := r.db.QueryContext(ctx,
		`SELECT n.id, n.rfi_id, n.type, n.performed_by, n.performed_by_type,
		        n.from_status, n.to_status, n.reason, n.created_at
		 FROM notifications n
		 WHERE n.rfi_id = ? AND n.rfi_id IN (SELECT r.id FROM rfis r WHERE `+clause+`)
		 ORDER BY n.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.NotificationEvent
	for rows.Next() {
		var (
			n               domain.NotificationEvent
			typ             string
			performedByType string
			fromStatus      string
			toStatus        string
		)
		if err := rows.Scan(&n.ID, &n.RFIID, &typ, &n.PerformedBy, &performedByType,
			&fromStatus, &toStatus, &n.Reason, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = domain.NotificationType(typ)
		n.PerformedByType = domain.PerformedByType(performedByType)
		n.FromStatus = domain.Status(fromStatus)
		n.ToStatus = domain.Status(toStatus)
		events = append(events, n)
	}
	return events, rows.Err()
}
