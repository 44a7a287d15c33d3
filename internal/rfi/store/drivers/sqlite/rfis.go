package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
)

type rfisRepo struct {
	db dbtx
}

const rfiColumns = `r.id, r.project_id, r.subject, r.question, r.status, r.stage,
	r.due_date, r.response, r.response_date, r.assigned_to, r.created_by,
	r.created_at, r.updated_at`

func scanRFI(row interface{ Scan(dest ...any) error }) (domain.RFI, error) {
	var (
		r            domain.RFI
		status       string
		stage        string
		dueDate      sql.NullTime
		responseDate sql.NullTime
	)
	err := row.Scan(&r.ID, &r.ProjectID, &r.Subject, &r.Question, &status, &stage,
		&dueDate, &r.Response, &responseDate, &r.AssignedTo, &r.CreatedBy,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return domain.RFI{}, err
	}
	r.Status = domain.Status(status)
	r.Stage = domain.Stage(stage)
	r.DueDate = mapNullTimePtr(dueDate)
	r.ResponseDate = mapNullTimePtr(responseDate)
	return r, nil
}

func (r *rfisRepo) CreateRFI(ctx context.Context, sc store.Scope, rfi domain.RFI) error {
	// The parent project must be visible inside sc; inserting through a
	// foreign project id is a cross-tenant write and surfaces as NotFound.
	clause, args := projectClause(sc)
	var parent string
	err := r.db.QueryRowContext(ctx,
		`SELECT p.id FROM projects p WHERE p.id = ? AND `+clause,
		append([]any{rfi.ProjectID}, args...)...,
	).Scan(&parent)
	if err != nil {
		return mapNotFound(err)
	}

	ts := now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO rfis (id, project_id, subject, question, status, stage, due_date,
		                   response, response_date, assigned_to, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rfi.ID, rfi.ProjectID, rfi.Subject, rfi.Question,
		string(rfi.Status), string(rfi.Stage), mapOptionalTime(rfi.DueDate),
		rfi.Response, mapOptionalTime(rfi.ResponseDate), rfi.AssignedTo,
		rfi.CreatedBy, ts, ts,
	)
	return err
}

func (r *rfisRepo) GetRFI(ctx context.Context, sc store.Scope, id string) (domain.RFI, error) {
	clause, args := rfiClause(sc)
	args = append([]any{id}, args...)

	rfi, err := scanRFI(r.db.QueryRowContext(ctx,
		`SELECT `+rfiColumns+` FROM rfis r WHERE r.id = ? AND `+clause,
		args...,
	))
	if err != nil {
		return domain.RFI{}, mapNotFound(err)
	}
	return rfi, nil
}

func (r *rfisRepo) ListProjectRFIs(
	ctx context.Context,
	sc store.Scope,
	projectID string,
) ([]domain.RFI, error) {
	clause, args := rfiClause(sc)
	args = append([]any{projectID}, args...)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+rfiColumns+` FROM rfis r
		 WHERE r.project_id = ? AND `+clause+` ORDER BY r.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rfis []domain.RFI
	for rows.Next() {
		rfi, err := scanRFI(rows)
		if err != nil {
			return nil, err
		}
		rfis = append(rfis, rfi)
	}
	return rfis, rows.Err()
}

func (r *rfisRepo) UpdateRFIContent(
	ctx context.Context,
	sc store.Scope,
	id, subject, question string,
) error {
	clause, args := rfiClause(sc)
	args = append([]any{subject, question, now(), id}, args...)

	res, err := r.db.ExecContext(ctx,
		`UPDATE rfis SET subject = ?, question = ?, updated_at = ?
		 WHERE id = ? AND id IN (SELECT r.id FROM rfis r WHERE `+clause+`)`,
		args...,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ApplyStateChange is the compare-and-set write behind every workflow
// transition. The WHERE clause re-checks the expected (status, stage) so a
// concurrent writer losing the race changes nothing and is told so.
func (r *rfisRepo) ApplyStateChange(
	ctx context.Context,
	sc store.Scope,
	id string,
	change store.RFIStateChange,
) (bool, error) {
	sets := "status = ?, stage = ?, updated_at = ?"
	args := []any{string(change.To.Status), string(change.To.Stage), now()}

	if change.SetDueDate != nil {
		sets += ", due_date = ?"
		args = append(args, *change.SetDueDate)
	}
	if change.SetAssignedTo != nil {
		sets += ", assigned_to = ?"
		args = append(args, *change.SetAssignedTo)
	}
	if change.SetResponse != nil {
		sets += ", response = ?"
		args = append(args, *change.SetResponse)
	}
	if change.SetResponseDate != nil {
		sets += ", response_date = ?"
		args = append(args, *change.SetResponseDate)
	}

	clause, scopeArgs := rfiClause(sc)
	args = append(args, id, string(change.From.Status), string(change.From.Stage))
	args = append(args, scopeArgs...)

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE rfis SET %s
		 WHERE id = ? AND status = ? AND stage = ?
		   AND id IN (SELECT r.id FROM rfis r WHERE %s)`, sets, clause),
		args...,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *rfisRepo) DeleteRFI(ctx context.Context, sc store.Scope, id string) error {
	clause, args := rfiClause(sc)
	args = append([]any{id}, args...)

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM rfis
		 WHERE id = ? AND id IN (SELECT r.id FROM rfis r WHERE `+clause+`)`,
		args...,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}
