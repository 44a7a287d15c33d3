package sqlite

import (
	"context"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
)

type projectsRepo struct {
	db dbtx
}

func (r *projectsRepo) CreateProject(ctx context.Context, p domain.Project) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, company_id, name, client_company_name, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CompanyID, p.Name, p.ClientCompanyName, p.CreatedBy, ts, ts,
	)
	return err
}

func (r *projectsRepo) GetProject(
	ctx context.Context,
	sc store.Scope,
	id string,
) (domain.Project, error) {
	clause, args := projectClause(sc)
	args = append([]any{id}, args...)

	var p domain.Project
	err := r.db.QueryRowContext(ctx,
		`SELECT p.id, p.company_id, p.name, p.client_company_name, p.created_by, p.created_at, p.updated_at
		 FROM projects p WHERE p.id = ? AND `+clause,
		args...,
	).Scan(&p.ID, &p.CompanyID, &p.Name, &p.ClientCompanyName, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Project{}, mapNotFound(err)
	}
	return p, nil
}

func (r *projectsRepo) ListProjects(ctx context.Context, sc store.Scope) ([]domain.Project, error) {
	clause, args := projectClause(sc)

	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.company_id, p.name, p.client_company_name, p.created_by, p.created_at, p.updated_at
		 FROM projects p WHERE `+clause+` ORDER BY p.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.ClientCompanyName,
			&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectsRepo) UpdateProject(
	ctx context.Context,
	sc store.Scope,
	id, name, clientCompanyName string,
) error {
	clause, args := projectClause(sc)
	args = append([]any{name, clientCompanyName, now(), id}, args...)

	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, client_company_name = ?, updated_at = ?
		 WHERE id = ? AND id IN (SELECT p.id FROM projects p WHERE `+clause+`)`,
		args...,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *projectsRepo) DeleteProject(ctx context.Context, sc store.Scope, id string) error {
	clause, args := projectClause(sc)
	args = append([]any{id}, args...)

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM projects
		 WHERE id = ? AND id IN (SELECT p.id FROM projects p WHERE `+clause+`)`,
		args...,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}
