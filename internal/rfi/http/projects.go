package http

import (
	"net/http"

	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/pkg/httpx"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

type ProjectsHandler struct {
	Directory *service.DirectoryService
	Projects  *service.ProjectService
}

// HandleCreate handles POST /v1/projects.
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.Projects.CreateProject(r.Context(), actor, req.Name, req.ClientCompanyName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProjectResponse(project))
}

// HandleList handles GET /v1/projects.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	projects, err := h.Projects.ListProjects(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := rfisdk.ListProjectsResponse{Projects: make([]rfisdk.ProjectResponse, len(projects))}
	for i, p := range projects {
		resp.Projects[i] = toProjectResponse(p)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/projects/{id}.
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	project, err := h.Projects.GetProject(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(project))
}

// HandleUpdate handles PUT /v1/projects/{id}.
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Projects.UpdateProject(r.Context(), actor, r.PathValue("id"), req.Name, req.ClientCompanyName); err != nil {
		writeError(w, r, err)
		return
	}

	project, err := h.Projects.GetProject(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(project))
}

// HandleDelete handles DELETE /v1/projects/{id}.
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	if err := h.Projects.DeleteProject(r.Context(), actor, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
