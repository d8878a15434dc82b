package application

import (
	"context"
	"errors"
	"time"

	"github.com/quirino/oauth-code-service/internal/domain"
	"go.uber.org/zap"
)

// ConsentGate decides whether a user's active consent covers a client's
// requested scopes and records new consent decisions.
type ConsentGate struct {
	consents   domain.ConsentRepository
	clock      domain.Clock
	consentTTL time.Duration
	logger     *zap.Logger
}

// NewConsentGate creates a new ConsentGate. A zero consentTTL means
// recorded consents never expire.
func NewConsentGate(consents domain.ConsentRepository, clock domain.Clock, consentTTL time.Duration, logger *zap.Logger) *ConsentGate {
	return &ConsentGate{
		consents:   consents,
		clock:      clock,
		consentTTL: consentTTL,
		logger:     logger,
	}
}

// Check reports whether the user's active consent for the client covers
// every requested scope. An empty scope set carries no specific
// requirement and passes whenever any active consent exists.
func (g *ConsentGate) Check(ctx context.Context, userID, clientID string, scopes []string) (bool, error) {
	consent, err := g.consents.FindActiveByUserAndClient(ctx, userID, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrConsentNotFound) {
			return false, nil
		}
		g.logger.Error("failed to load consent",
			zap.String("user_id", userID),
			zap.String("client_id", clientID),
			zap.Error(err))
		return false, domain.ErrInternal
	}

	// The repository filters on revocation; expiry is re-checked here so a
	// stale row can never pass the gate.
	if !consent.IsActive(g.clock.Now()) {
		return false, nil
	}

	return consent.Covers(scopes), nil
}

// Record stores the user's consent decision. Approval revokes any prior
// active consent for the pair and inserts a new record as one transactional
// unit, keeping at most one consent active per (user, client) pair. Denial
// writes nothing and surfaces ErrConsentDenied.
func (g *ConsentGate) Record(ctx context.Context, userID, clientID string, scopes []string, approved bool) error {
	if !approved {
		g.logger.Debug("consent denied",
			zap.String("user_id", userID),
			zap.String("client_id", clientID))
		return domain.ErrConsentDenied
	}

	consent, err := domain.NewConsent(domain.NewID(), userID, clientID, scopes, g.clock.Now(), g.consentTTL)
	if err != nil {
		return err
	}

	if err := g.consents.ReplaceActive(ctx, consent); err != nil {
		g.logger.Error("failed to record consent",
			zap.String("user_id", userID),
			zap.String("client_id", clientID),
			zap.Error(err))
		return domain.ErrInternal
	}

	g.logger.Info("consent recorded",
		zap.String("user_id", userID),
		zap.String("client_id", clientID),
		zap.Strings("scopes", scopes))
	return nil
}
