package http

import (
	"errors"
	"net/http"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/pkg/httpx"
	"github.com/buildvane/rfihub/pkg/rfisdk"
	"github.com/buildvane/rfihub/pkg/slogx"
)

// writeError maps the domain error taxonomy onto HTTP status codes and the
// uniform error envelope. Anything outside the taxonomy is a 500 with the
// detail kept in the log, not the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, rfisdk.ErrorResponse{
			Code:    "not_found",
			Message: "The requested resource does not exist",
		})
	case errors.Is(err, domain.ErrForbidden):
		httpx.WriteJSON(w, http.StatusForbidden, rfisdk.ErrorResponse{
			Code:    "forbidden",
			Message: "You do not have permission to perform this action",
		})
	case errors.Is(err, domain.ErrConflict):
		httpx.WriteJSON(w, http.StatusConflict, rfisdk.ErrorResponse{
			Code:    "conflict",
			Message: "The resource changed since it was read; reload and retry",
		})
	case errors.Is(err, domain.ErrValidation):
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, rfisdk.ErrorResponse{
			Code:    "validation_failed",
			Message: "The request payload is invalid",
		})
	case errors.Is(err, domain.ErrTokenExpired):
		httpx.WriteJSON(w, http.StatusGone, rfisdk.ErrorResponse{
			Code:    "link_expired",
			Message: "This link has expired; ask for a new one",
		})
	case errors.Is(err, domain.ErrTokenRevoked):
		httpx.WriteJSON(w, http.StatusGone, rfisdk.ErrorResponse{
			Code:    "link_revoked",
			Message: "This link has been revoked",
		})
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, rfisdk.ErrorResponse{
			Code:    "server_error",
			Message: "An internal error occurred",
		})
	}
}

// decodeJSON reads a JSON request body into v, mapping failures onto the
// validation error path.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := jsonDecode(r, v); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, rfisdk.ErrorResponse{
			Code:    "bad_request",
			Message: "Request body is not valid JSON",
		})
		return false
	}
	return true
}
