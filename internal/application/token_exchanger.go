package application

import (
	"context"
	"errors"

	"github.com/quirino/oauth-code-service/internal/domain"
	"go.uber.org/zap"
)

// TokenExchanger redeems authorization codes. Single use is enforced by the
// store's conditional update, never by a read-then-write in this process;
// two interleaved redemptions of one code can both pass every check below,
// but only one conditional update matches.
type TokenExchanger struct {
	codes   domain.CodeRepository
	clients domain.ClientRepository
	hasher  domain.SecretHasher
	clock   domain.Clock
	logger  *zap.Logger
}

// NewTokenExchanger creates a new TokenExchanger
func NewTokenExchanger(codes domain.CodeRepository, clients domain.ClientRepository, hasher domain.SecretHasher, clock domain.Clock, logger *zap.Logger) *TokenExchanger {
	return &TokenExchanger{
		codes:   codes,
		clients: clients,
		hasher:  hasher,
		clock:   clock,
		logger:  logger,
	}
}

// Redeem authenticates the presenting client, validates the code against
// the verifier, client and redirect URI, atomically marks it used and
// returns what the code was issued for. Confidential clients authenticate
// with their secret; public clients hold no secret and their codes are
// PKCE-bound instead. Every rejection surfaces as ErrInvalidGrant; the
// cause is logged, not returned, so callers cannot tell which check
// failed.
func (t *TokenExchanger) Redeem(ctx context.Context, code, verifier, clientIdentifier, clientSecret, redirectURI string) (*domain.RedemptionResult, error) {
	identifier, err := domain.NewClientIdentifier(clientIdentifier)
	if err != nil {
		return nil, domain.ErrInvalidGrant
	}

	client, err := t.clients.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.ErrInvalidGrant
		}
		t.logger.Error("failed to load client for redemption", zap.Error(err))
		return nil, domain.ErrInternal
	}

	if !client.IsActive() {
		t.logger.Debug("rejected code redemption: inactive client",
			zap.String("client_id", clientIdentifier))
		return nil, domain.ErrInvalidGrant
	}

	if !client.Public && !t.hasher.Verify(client.SecretHash, clientSecret) {
		t.logger.Debug("rejected code redemption: client authentication failed",
			zap.String("client_id", clientIdentifier))
		return nil, domain.ErrInvalidGrant
	}

	authCode, err := t.codes.FindByToken(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidGrant
		}
		t.logger.Error("failed to load authorization code", zap.Error(err))
		return nil, domain.ErrInternal
	}

	now := t.clock.Now()
	if authCode.Used || authCode.IsExpired(now) {
		t.logger.Debug("rejected code redemption",
			zap.Bool("used", authCode.Used),
			zap.Bool("expired", authCode.IsExpired(now)))
		return nil, domain.ErrInvalidGrant
	}

	if !authCode.Matches(identifier, redirectURI) {
		t.logger.Debug("rejected code redemption: binding mismatch",
			zap.String("client_id", clientIdentifier))
		return nil, domain.ErrInvalidGrant
	}

	// Codes issued without a challenge (confidential and system clients)
	// rely on the secret check above instead of PKCE.
	if !authCode.CodeChallenge.IsZero() && !authCode.CodeChallenge.Verify(verifier) {
		t.logger.Debug("rejected code redemption: pkce verification failed",
			zap.String("client_id", clientIdentifier))
		return nil, domain.ErrInvalidGrant
	}

	marked, err := t.codes.MarkUsedIfUnused(ctx, authCode.Code, now)
	if err != nil {
		t.logger.Error("failed to mark authorization code used", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if !marked {
		// A concurrent redemption won the race between our read and the
		// conditional update.
		t.logger.Debug("rejected code redemption: already consumed",
			zap.String("client_id", clientIdentifier))
		return nil, domain.ErrInvalidGrant
	}

	return &domain.RedemptionResult{
		UserID:   authCode.UserID,
		ClientID: authCode.ClientID.String(),
		Scope:    authCode.Scope,
	}, nil
}
