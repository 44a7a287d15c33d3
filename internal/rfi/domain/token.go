package domain

import "time"

// ClientAccessToken is the stored form of an external-responder capability:
// bound to exactly one RFI, time-limited, independently revocable. Only the
// fingerprint of the opaque token is persisted.
type ClientAccessToken struct {
	ID        string
	TokenHash string
	RFIID     string
	CreatedBy string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
