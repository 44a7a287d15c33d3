package service

import (
	"context"
	"log/slog"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/pkg/idx"
	"github.com/buildvane/rfihub/pkg/slogx"
)

// ProjectService manages projects, the tenant anchor every RFI hangs off.
type ProjectService struct {
	Store store.Store
}

func (s *ProjectService) CreateProject(
	ctx context.Context,
	actor authz.Actor,
	name, clientCompanyName string,
) (domain.Project, error) {
	log := slogx.FromContext(ctx)

	if !actor.Can(authz.PermCreateProject) {
		return domain.Project{}, domain.ErrForbidden
	}
	if name == "" {
		return domain.Project{}, domain.ErrValidation
	}

	project := domain.Project{
		ID:                idx.New().String(),
		CompanyID:         actor.CompanyID,
		Name:              name,
		ClientCompanyName: clientCompanyName,
		CreatedBy:         actor.UserID,
	}
	if err := s.Store.Projects().CreateProject(ctx, project); err != nil {
		log.Error("failed to create project", slog.Any("error", err))
		return domain.Project{}, err
	}

	log.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("company_id", project.CompanyID),
	)
	return project, nil
}

func (s *ProjectService) GetProject(
	ctx context.Context,
	actor authz.Actor,
	id string,
) (domain.Project, error) {
	if !actor.Can(authz.PermViewProjects) {
		return domain.Project{}, domain.ErrForbidden
	}

	project, err := s.Store.Projects().GetProject(ctx, authz.ScopeFor(actor), id)
	if err != nil {
		return domain.Project{}, mapStoreErr(err)
	}
	return project, nil
}

func (s *ProjectService) ListProjects(
	ctx context.Context,
	actor authz.Actor,
) ([]domain.Project, error) {
	if !actor.Can(authz.PermViewProjects) {
		return nil, domain.ErrForbidden
	}
	return s.Store.Projects().ListProjects(ctx, authz.ScopeFor(actor))
}

func (s *ProjectService) UpdateProject(
	ctx context.Context,
	actor authz.Actor,
	id, name, clientCompanyName string,
) error {
	if !actor.Can(authz.PermEditProject) {
		return domain.ErrForbidden
	}
	if name == "" {
		return domain.ErrValidation
	}

	if err := s.Store.Projects().UpdateProject(ctx, authz.ScopeFor(actor), id, name, clientCompanyName); err != nil {
		return mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("project updated", slog.String("project_id", id))
	return nil
}

// DeleteProject removes a project. delete_project deletes any project in the
// tenant; delete_own_project only ones the actor created. The scoped read
// happens first so cross-tenant ids are NotFound before any permission
// reasoning leaks information.
func (s *ProjectService) DeleteProject(
	ctx context.Context,
	actor authz.Actor,
	id string,
) error {
	if !actor.Can(authz.PermDeleteProject) && !actor.Can(authz.PermDeleteOwnProject) {
		return domain.ErrForbidden
	}

	sc := authz.ScopeFor(actor)
	project, err := s.Store.Projects().GetProject(ctx, sc, id)
	if err != nil {
		return mapStoreErr(err)
	}

	if !actor.Can(authz.PermDeleteProject) && project.CreatedBy != actor.UserID {
		return domain.ErrForbidden
	}

	if err := s.Store.Projects().DeleteProject(ctx, sc, id); err != nil {
		return mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("project deleted",
		slog.String("project_id", id),
		slog.String("by", actor.UserID),
	)
	return nil
}
