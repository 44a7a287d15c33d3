package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/buildvane/rfihub/pkg/jwtx"
	"github.com/buildvane/rfihub/pkg/slogx"
)

// PreviewRoleHeader lets a signed-in user ask the API to evaluate advisory
// permission checks as a different role. It never widens what the caller may
// actually do.
const PreviewRoleHeader = "X-Preview-Role"

// AuthnMiddleware verifies the bearer token from the identity provider and
// injects the verified subject into the request context. Company and role
// resolution happens downstream against the membership directory.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			if err := claims.ValidateExpiry(); err != nil {
				writeBearerError(w, "token expired")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			if preview := r.Header.Get(PreviewRoleHeader); preview != "" {
				ctx = context.WithValue(ctx, CtxKeyPreviewRole, preview)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
