package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/buildvane/rfihub/internal/rfi/authz"
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/notify"
	"github.com/buildvane/rfihub/internal/rfi/obs"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/internal/rfi/workflow"
	"github.com/buildvane/rfihub/pkg/cryptox"
	"github.com/buildvane/rfihub/pkg/idx"
	"github.com/buildvane/rfihub/pkg/slogx"
)

// DefaultLinkTTL is how long a minted client link stays usable unless
// configured otherwise.
const DefaultLinkTTL = 14 * 24 * time.Hour

// ClientAccessService mints and validates the single-RFI capability tokens
// external responders use. A token is opaque to its bearer; only its
// fingerprint is stored.
type ClientAccessService struct {
	Store   store.Store
	Emitter notify.Emitter

	// LinkTTL bounds token lifetime. Zero means DefaultLinkTTL.
	LinkTTL time.Duration

	Now func() time.Time
}

func (s *ClientAccessService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ClientAccessService) ttl() time.Duration {
	if s.LinkTTL > 0 {
		return s.LinkTTL
	}
	return DefaultLinkTTL
}

// MintedLink is the one-time result of minting: the plaintext token is
// returned here and never again.
type MintedLink struct {
	Token     string
	RFIID     string
	ExpiresAt time.Time
}

// Mint issues a fresh access token bound to one RFI the actor can see. The
// RFI must already be with the client; there is nothing for a responder to
// answer before that.
func (s *ClientAccessService) Mint(
	ctx context.Context,
	actor authz.Actor,
	rfiID string,
) (MintedLink, error) {
	log := slogx.FromContext(ctx)

	sc := authz.ScopeFor(actor)
	rfi, err := s.Store.RFIs().GetRFI(ctx, sc, rfiID)
	if err != nil {
		return MintedLink{}, mapStoreErr(err)
	}

	if !actor.Can(authz.PermGenerateClientLink) {
		return MintedLink{}, domain.ErrForbidden
	}
	if rfi.Stage != domain.StageSentToClient {
		return MintedLink{}, domain.ErrConflict
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate token", slog.Any("error", err))
		return MintedLink{}, err
	}

	record := domain.ClientAccessToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		RFIID:     rfiID,
		CreatedBy: actor.UserID,
		ExpiresAt: s.now().Add(s.ttl()).UTC(),
	}
	if err := s.Store.AccessTokens().CreateToken(ctx, record); err != nil {
		log.Error("failed to store token", slog.Any("error", err))
		return MintedLink{}, err
	}

	log.Info("client link minted",
		slog.String("rfi_id", rfiID),
		slog.String("token_id", record.ID),
		slog.Time("expires_at", record.ExpiresAt),
	)

	if s.Emitter != nil {
		s.Emitter.Emit(ctx, domain.NotificationEvent{
			ID:              idx.New().String(),
			RFIID:           rfiID,
			Type:            domain.NotificationLinkGenerated,
			PerformedBy:     actor.UserID,
			PerformedByType: domain.PerformedByUser,
			FromStatus:      rfi.Status,
			ToStatus:        rfi.Status,
			Reason:          "client link generated",
		})
	}

	return MintedLink{Token: token, RFIID: rfiID, ExpiresAt: record.ExpiresAt}, nil
}

// Revoke invalidates every outstanding link for an RFI.
func (s *ClientAccessService) Revoke(
	ctx context.Context,
	actor authz.Actor,
	rfiID string,
) error {
	sc := authz.ScopeFor(actor)
	if _, err := s.Store.RFIs().GetRFI(ctx, sc, rfiID); err != nil {
		return mapStoreErr(err)
	}
	if !actor.Can(authz.PermGenerateClientLink) {
		return domain.ErrForbidden
	}

	if err := s.Store.AccessTokens().RevokeTokensForRFI(ctx, sc, rfiID); err != nil {
		return mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("client links revoked", slog.String("rfi_id", rfiID))
	return nil
}

// ClientRFIView is the portal-facing projection of an RFI: enough to read
// the question and answer it, nothing about the owning tenant.
type ClientRFIView struct {
	ID           string
	Subject      string
	Question     string
	Status       domain.Status
	Stage        domain.Stage
	DueDate      *time.Time
	Response     string
	ResponseDate *time.Time
}

func clientView(r domain.RFI) ClientRFIView {
	return ClientRFIView{
		ID:           r.ID,
		Subject:      r.Subject,
		Question:     r.Question,
		Status:       r.Status,
		Stage:        r.Stage,
		DueDate:      r.DueDate,
		Response:     r.Response,
		ResponseDate: r.ResponseDate,
	}
}

// resolve maps an opaque token to its record and bound RFI, applying the
// expiry and revocation checks in that order only after the token is known.
// An unknown token is NotFound; nothing distinguishes it from a never-issued
// one.
func (s *ClientAccessService) resolve(
	ctx context.Context,
	token string,
) (domain.ClientAccessToken, domain.RFI, error) {
	record, err := s.Store.AccessTokens().GetTokenByHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		return domain.ClientAccessToken{}, domain.RFI{}, mapStoreErr(err)
	}
	if record.Revoked {
		return domain.ClientAccessToken{}, domain.RFI{}, domain.ErrTokenRevoked
	}
	if s.now().After(record.ExpiresAt) {
		return domain.ClientAccessToken{}, domain.RFI{}, domain.ErrTokenExpired
	}

	// The token itself is the capability; it carries no tenant context, so
	// the bound RFI is read globally.
	rfi, err := s.Store.RFIs().GetRFI(ctx, store.GlobalScope(), record.RFIID)
	if err != nil {
		return domain.ClientAccessToken{}, domain.RFI{}, mapStoreErr(err)
	}
	return record, rfi, nil
}

// Validate returns the portal view for a presented token.
func (s *ClientAccessService) Validate(
	ctx context.Context,
	token string,
) (ClientRFIView, error) {
	_, rfi, err := s.resolve(ctx, token)
	if err != nil {
		return ClientRFIView{}, err
	}
	return clientView(rfi), nil
}

// Respond records the external answer through the same workflow row a
// signed-in responder would use. A second response finds the RFI already
// moved and conflicts; the first answer stands.
func (s *ClientAccessService) Respond(
	ctx context.Context,
	token string,
	response string,
) (ClientRFIView, error) {
	log := slogx.FromContext(ctx)

	record, rfi, err := s.resolve(ctx, token)
	if err != nil {
		return ClientRFIView{}, err
	}
	if response == "" {
		return ClientRFIView{}, domain.ErrValidation
	}

	t, _ := workflow.Lookup(workflow.ActionRespond)
	cur := rfi.State()
	if !t.Allows(cur) {
		obs.TransitionAttempt(string(workflow.ActionRespond), "conflict")
		return ClientRFIView{}, domain.ErrConflict
	}

	responseAt := s.now().UTC()
	change := store.RFIStateChange{
		From:            cur,
		To:              t.Resolve(cur),
		SetResponse:     &response,
		SetResponseDate: &responseAt,
	}

	swapped, err := s.Store.RFIs().ApplyStateChange(ctx, store.GlobalScope(), rfi.ID, change)
	if err != nil {
		obs.TransitionAttempt(string(workflow.ActionRespond), "error")
		log.Error("failed to record client response",
			slog.String("rfi_id", rfi.ID),
			slog.Any("error", err),
		)
		return ClientRFIView{}, err
	}
	if !swapped {
		obs.TransitionAttempt(string(workflow.ActionRespond), "conflict")
		return ClientRFIView{}, domain.ErrConflict
	}

	obs.TransitionAttempt(string(workflow.ActionRespond), "ok")
	log.Info("client response recorded",
		slog.String("rfi_id", rfi.ID),
		slog.String("token_id", record.ID),
	)

	if s.Emitter != nil {
		s.Emitter.Emit(ctx, domain.NotificationEvent{
			ID:              idx.New().String(),
			RFIID:           rfi.ID,
			Type:            domain.NotificationResponseReceived,
			PerformedBy:     record.ID,
			PerformedByType: domain.PerformedByClient,
			FromStatus:      cur.Status,
			ToStatus:        change.To.Status,
			Reason:          string(workflow.ActionRespond),
		})
	}

	updated, err := s.Store.RFIs().GetRFI(ctx, store.GlobalScope(), rfi.ID)
	if err != nil {
		return ClientRFIView{}, mapStoreErr(err)
	}
	return clientView(updated), nil
}
