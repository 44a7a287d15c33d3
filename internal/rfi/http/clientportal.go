package http

import (
	"net/http"

	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/pkg/httpx"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

// ClientPortalHandler serves the anonymous responder surface. The only
// credential is the opaque token in the query string; there is no account
// and no session.
type ClientPortalHandler struct {
	Links *service.ClientAccessService
}

func portalToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, rfisdk.ErrorResponse{
			Code:    "bad_request",
			Message: "Missing access token",
		})
		return "", false
	}
	return token, true
}

// HandleGet handles GET /v1/client/rfi?token=...
func (h *ClientPortalHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	token, ok := portalToken(w, r)
	if !ok {
		return
	}

	view, err := h.Links.Validate(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClientRFIResponse(view))
}

// HandleRespond handles POST /v1/client/rfi/response?token=...
func (h *ClientPortalHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	token, ok := portalToken(w, r)
	if !ok {
		return
	}

	var req rfisdk.ClientRespondRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.Links.Respond(r.Context(), token, req.Response)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toClientRFIResponse(view))
}
