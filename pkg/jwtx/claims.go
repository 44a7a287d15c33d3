// Package jwtx verifies the bearer tokens issued by the identity provider.
// The service only trusts the verified subject; company membership and role
// are always re-derived from the directory, never from token claims.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrExpired    = errors.New("jwtx: token expired")
)

// Claims are the identity-provider claims this service cares about. Any
// role or company claims the provider happens to include are ignored.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user, if the provider includes it.
	Email string `json:"email,omitempty"`
}

// ValidateIssuer checks the issuer matches the expected value. An empty
// expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry checks the token has an expiry and it has not passed.
func (c *Claims) ValidateExpiry() error {
	if c.ExpiresAt == nil || time.Now().After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
