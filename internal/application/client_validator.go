package application

import (
	"context"
	"errors"

	"github.com/quirino/oauth-code-service/internal/domain"
	"go.uber.org/zap"
)

// ClientValidator verifies that a client is known, active and permitted the
// requested redirect URI and grant type. Pure read, no side effects.
type ClientValidator struct {
	clients domain.ClientRepository
	logger  *zap.Logger
}

// NewClientValidator creates a new ClientValidator
func NewClientValidator(clients domain.ClientRepository, logger *zap.Logger) *ClientValidator {
	return &ClientValidator{
		clients: clients,
		logger:  logger,
	}
}

// Validate resolves the client by its public identifier and checks the
// redirect URI and grant type against its registration. An inactive client
// is indistinguishable from an unknown one.
func (v *ClientValidator) Validate(ctx context.Context, clientIdentifier, redirectURI, grantType string) (*domain.Client, error) {
	v.logger.Debug("validating client",
		zap.String("client_id", clientIdentifier),
		zap.String("redirect_uri", redirectURI),
		zap.String("grant_type", grantType))

	identifier, err := domain.NewClientIdentifier(clientIdentifier)
	if err != nil {
		return nil, err
	}

	client, err := v.clients.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.ErrClientNotFound
		}
		v.logger.Error("failed to find client",
			zap.String("client_id", clientIdentifier),
			zap.Error(err))
		return nil, domain.ErrInternal
	}

	if !client.IsActive() {
		return nil, domain.ErrClientNotFound
	}

	if !client.AllowsRedirectURI(redirectURI) {
		return nil, domain.ErrRedirectURIMismatch
	}

	if !client.AllowsGrantType(grantType) {
		return nil, domain.ErrUnsupportedGrantType
	}

	return client, nil
}
