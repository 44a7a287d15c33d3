package http

import (
	"net/http"

	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/pkg/httpx"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

type RFIsHandler struct {
	Directory *service.DirectoryService
	RFIs      *service.RFIService
}

// HandleCreate handles POST /v1/projects/{id}/rfis.
func (h *RFIsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.CreateRFIRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rfi, err := h.RFIs.CreateRFI(r.Context(), actor, r.PathValue("id"), req.Subject, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRFIResponse(rfi))
}

// HandleListForProject handles GET /v1/projects/{id}/rfis.
func (h *RFIsHandler) HandleListForProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	rfis, err := h.RFIs.ListProjectRFIs(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := rfisdk.ListRFIsResponse{RFIs: make([]rfisdk.RFIResponse, len(rfis))}
	for i, v := range rfis {
		resp.RFIs[i] = toRFIResponse(v)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/rfis/{id}.
func (h *RFIsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	rfi, err := h.RFIs.GetRFI(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRFIResponse(rfi))
}

// HandleUpdate handles PUT /v1/rfis/{id}.
func (h *RFIsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.UpdateRFIRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rfi, err := h.RFIs.UpdateRFI(r.Context(), actor, r.PathValue("id"), req.Subject, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRFIResponse(rfi))
}

// HandleDelete handles DELETE /v1/rfis/{id}.
func (h *RFIsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	if err := h.RFIs.DeleteRFI(r.Context(), actor, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTransition handles POST /v1/rfis/{id}/transition.
func (h *RFIsHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	var req rfisdk.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rfi, err := h.RFIs.Transition(r.Context(), actor, r.PathValue("id"),
		workflowAction(req.Action), workflowAux(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRFIResponse(rfi))
}

// HandleNotifications handles GET /v1/rfis/{id}/notifications.
func (h *RFIsHandler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	events, err := h.RFIs.ListRFINotifications(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := rfisdk.ListNotificationsResponse{
		Notifications: make([]rfisdk.NotificationInfo, len(events)),
	}
	for i, n := range events {
		resp.Notifications[i] = toNotificationInfo(n)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
