package sqlite

import (
	"context"
	"strings"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
)

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (user_id, company_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.UserID, m.CompanyID, string(m.Role), ts, ts,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *membershipsRepo) GetMembership(
	ctx context.Context,
	userID, companyID string,
) (domain.Membership, error) {
	var m domain.Membership
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, company_id, role, created_at, updated_at
		 FROM memberships WHERE user_id = ? AND company_id = ?`,
		userID, companyID,
	).Scan(&m.UserID, &m.CompanyID, &role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	m.Role = domain.Role(role)
	return m, nil
}

func (r *membershipsRepo) ListUserMemberships(
	ctx context.Context,
	userID string,
) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, company_id, role, created_at, updated_at
		 FROM memberships WHERE user_id = ? ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMemberships(rows)
}

func (r *membershipsRepo) ListCompanyMembers(
	ctx context.Context,
	companyID string,
) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, company_id, role, created_at, updated_at
		 FROM memberships WHERE company_id = ? ORDER BY created_at ASC`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMemberships(rows)
}

func (r *membershipsRepo) UpdateMembershipRole(
	ctx context.Context,
	userID, companyID string,
	role domain.Role,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE memberships SET role = ?, updated_at = ?
		 WHERE user_id = ? AND company_id = ?`,
		string(role), now(), userID, companyID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, userID, companyID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE user_id = ? AND company_id = ?`,
		userID, companyID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanMemberships(rows rowScanner) ([]domain.Membership, error) {
	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		var role string
		if err := rows.Scan(&m.UserID, &m.CompanyID, &role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
