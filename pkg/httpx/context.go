package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the verified subject of the bearer token.
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyPreviewRole carries an optional advisory role override for UI
	// preview. It is request-scoped by construction and never consulted by
	// the enforcement path.
	CtxKeyPreviewRole ctxKey = "preview_role"
)

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}

// PreviewRoleFromContext returns the advisory preview role, if any.
func PreviewRoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyPreviewRole).(string)
	return v, ok && v != ""
}
