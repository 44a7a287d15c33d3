package http

import (
	"net/http"

	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/pkg/httpx"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

type ClientLinkHandler struct {
	Directory *service.DirectoryService
	Links     *service.ClientAccessService
}

// HandleMint handles POST /v1/rfis/{id}/client-link. The plaintext token in
// the response is shown exactly once.
func (h *ClientLinkHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	minted, err := h.Links.Mint(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, rfisdk.ClientLinkResponse{
		Token:     minted.Token,
		RFIID:     minted.RFIID,
		ExpiresAt: minted.ExpiresAt,
	})
}

// HandleRevoke handles DELETE /v1/rfis/{id}/client-link.
func (h *ClientLinkHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	actor, ok := resolveActor(w, r, h.Directory)
	if !ok {
		return
	}

	if err := h.Links.Revoke(r.Context(), actor, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
