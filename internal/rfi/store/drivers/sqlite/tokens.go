package sqlite

import (
	"context"
	"strings"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/store"
)

type accessTokensRepo struct {
	db dbtx
}

func (r *accessTokensRepo) CreateToken(ctx context.Context, t domain.ClientAccessToken) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_access_tokens (id, token_hash, rfi_id, created_by, expires_at, revoked, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.RFIID, t.CreatedBy, t.ExpiresAt, t.Revoked, ts, ts,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *accessTokensRepo) GetTokenByHash(
	ctx context.Context,
	hash string,
) (domain.ClientAccessToken, error) {
	var t domain.ClientAccessToken
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token_hash, rfi_id, created_by, expires_at, revoked, created_at, updated_at
		 FROM client_access_tokens WHERE token_hash = ?`,
		hash,
	).Scan(&t.ID, &t.TokenHash, &t.RFIID, &t.CreatedBy, &t.ExpiresAt, &t.Revoked,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.ClientAccessToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *accessTokensRepo) RevokeTokensForRFI(
	ctx context.Context,
	sc store.Scope,
	rfiID string,
) error {
	clause, scopeArgs := rfiClause(sc)
	args := append([]any{now(), rfiID}, scopeArgs...)

	// No requireRow here: revoking an RFI with no live tokens is fine.
	_, err := r.db.ExecContext(ctx,
		`UPDATE client_access_tokens SET revoked = 1, updated_at = ?
		 WHERE rfi_id = ? AND rfi_id IN (SELECT r.id FROM rfis r WHERE `+clause+`)`,
		args...,
	)
	return err
}

func (r *accessTokensRepo) DeleteExpiredTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM client_access_tokens WHERE expires_at < ?`, now(),
	)
	return err
}
