package domain

import "errors"

// The error taxonomy every public operation resolves to. Handlers map these
// onto transport status codes; services wrap them with context via %w.
var (
	// ErrNotFound covers both genuinely unknown resources and cross-tenant
	// access. The two are indistinguishable on purpose so a caller cannot
	// probe for the existence of another company's records.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is a same-tenant permission denial.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict reports a stale expected-state transition or a duplicate
	// single-response submission.
	ErrConflict = errors.New("conflict")

	// ErrValidation reports malformed auxiliary data on a transition or a
	// malformed request body.
	ErrValidation = errors.New("validation failed")

	// ErrTokenExpired and ErrTokenRevoked are client access token outcomes.
	ErrTokenExpired = errors.New("client access token expired")
	ErrTokenRevoked = errors.New("client access token revoked")
)
