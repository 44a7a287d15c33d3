package http

import (
	"encoding/json"
	"net/http"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/pkg/httpx"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

// CompanyHeader selects the acting company for users who belong to more
// than one. Ignored (and unnecessary) for single-membership users.
const CompanyHeader = "X-Company-ID"

func jsonDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// resolveActor derives the request's actor from the verified subject plus
// the membership directory. Failing resolution short-circuits the request.
func resolveActor(
	w http.ResponseWriter,
	r *http.Request,
	directory *service.DirectoryService,
) (authz.Actor, bool) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, rfisdk.ErrorResponse{
			Code:    "unauthorized",
			Message: "Authentication required",
		})
		return authz.Actor{}, false
	}

	preview, _ := httpx.PreviewRoleFromContext(ctx)
	actor, err := directory.ResolveActor(ctx, userID, r.Header.Get(CompanyHeader), preview)
	if err != nil {
		writeError(w, r, err)
		return authz.Actor{}, false
	}
	return actor, true
}
