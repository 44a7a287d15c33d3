package http

import (
	"net/http"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/pkg/httpx"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

type CompaniesHandler struct {
	Directory *service.DirectoryService
}

func toCompanyResponse(c domain.Company) rfisdk.CompanyResponse {
	return rfisdk.CompanyResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

// HandleCreate handles POST /v1/companies (operator only).
func (h *CompaniesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.CreateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := h.Directory.CreateCompany(r.Context(), actor, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCompanyResponse(company))
}

// HandleList handles GET /v1/companies (operator only).
func (h *CompaniesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	companies, err := h.Directory.ListCompanies(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]rfisdk.CompanyResponse, len(companies))
	for i, c := range companies {
		resp[i] = toCompanyResponse(c)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/companies/{id}.
func (h *CompaniesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	company, err := h.Directory.GetCompany(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCompanyResponse(company))
}

// HandleUpdate handles PUT /v1/companies/{id}.
func (h *CompaniesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.UpdateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Directory.UpdateCompanySettings(r.Context(), actor, r.PathValue("id"), req.Name); err != nil {
		writeError(w, r, err)
		return
	}

	company, err := h.Directory.GetCompany(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCompanyResponse(company))
}

// HandleListMembers handles GET /v1/companies/{id}/members.
func (h *CompaniesHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	members, err := h.Directory.ListCompanyMembers(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := rfisdk.ListMembersResponse{Members: make([]rfisdk.MemberInfo, len(members))}
	for i, m := range members {
		resp.Members[i] = rfisdk.MemberInfo{
			UserID: m.User.ID,
			Email:  m.User.Email,
			Name:   m.User.Name,
			Role:   string(m.Role),
		}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAddMember handles POST /v1/companies/{id}/members.
func (h *CompaniesHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.AddMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Directory.AddMember(r.Context(), actor, r.PathValue("id"),
		req.Email, req.Name, domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, rfisdk.MemberInfo{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   req.Role,
	})
}

// HandleUpdateMemberRole handles PUT /v1/companies/{id}/members/{userID}.
func (h *CompaniesHandler) HandleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.UpdateMemberRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.Directory.UpdateMemberRole(r.Context(), actor, r.PathValue("id"),
		r.PathValue("userID"), domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveMember handles DELETE /v1/companies/{id}/members/{userID}.
func (h *CompaniesHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	err := h.Directory.RemoveMember(r.Context(), actor, r.PathValue("id"), r.PathValue("userID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
