package application

import (
	"context"
	"errors"

	"github.com/quirino/oauth-code-service/internal/domain"
	"go.uber.org/zap"
)

// ConsentService is the user-facing surface over recorded consents:
// listing and explicit revocation.
type ConsentService struct {
	consents domain.ConsentRepository
	clock    domain.Clock
	logger   *zap.Logger
}

// NewConsentService creates a new ConsentService
func NewConsentService(consents domain.ConsentRepository, clock domain.Clock, logger *zap.Logger) *ConsentService {
	return &ConsentService{
		consents: consents,
		clock:    clock,
		logger:   logger,
	}
}

// List returns the user's active consents
func (s *ConsentService) List(ctx context.Context, userID string) ([]*domain.Consent, error) {
	consents, err := s.consents.FindAllActiveByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list consents",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, domain.ErrInternal
	}
	return consents, nil
}

// Revoke withdraws the user's consent for a client. Revoking a consent
// that does not exist, or was already revoked, is a no-op: the lookup is
// keyed by the calling user, so one user can never touch another's grant.
func (s *ConsentService) Revoke(ctx context.Context, userID, clientID string) error {
	consent, err := s.consents.FindActiveByUserAndClient(ctx, userID, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrConsentNotFound) {
			return nil
		}
		s.logger.Error("failed to load consent for revocation",
			zap.String("user_id", userID),
			zap.String("client_id", clientID),
			zap.Error(err))
		return domain.ErrInternal
	}

	if err := s.consents.Revoke(ctx, consent.ID, s.clock.Now()); err != nil {
		s.logger.Error("failed to revoke consent",
			zap.String("consent_id", consent.ID),
			zap.Error(err))
		return domain.ErrInternal
	}

	s.logger.Info("consent revoked",
		zap.String("user_id", userID),
		zap.String("client_id", clientID))
	return nil
}
