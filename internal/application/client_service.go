package application

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/quirino/oauth-code-service/internal/domain"
	"go.uber.org/zap"
)

const (
	clientIdentifierBytes = 16
	clientSecretBytes     = 32
)

// RegisterClientRequest carries the fields of an owner-initiated client
// registration.
type RegisterClientRequest struct {
	DisplayName  string
	RedirectURIs []string
	GrantTypes   []string
	Public       bool
}

// ClientService manages the lifecycle of user-owned clients: registration,
// settings updates, secret rotation and deactivation. System clients are
// provisioned at startup and refuse owner mutation.
type ClientService struct {
	clients domain.ClientRepository
	hasher  domain.SecretHasher
	random  domain.RandomSource
	clock   domain.Clock
	logger  *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(clients domain.ClientRepository, hasher domain.SecretHasher, random domain.RandomSource, clock domain.Clock, logger *zap.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		hasher:  hasher,
		random:  random,
		clock:   clock,
		logger:  logger,
	}
}

// Register creates a client owned by the calling user. For confidential
// clients the generated plaintext secret is returned exactly once; only
// its hash is stored.
func (s *ClientService) Register(ctx context.Context, ownerUserID string, req RegisterClientRequest) (*domain.Client, string, error) {
	identifierValue, err := s.randomToken(clientIdentifierBytes)
	if err != nil {
		s.logger.Error("failed to generate client identifier", zap.Error(err))
		return nil, "", domain.ErrInternal
	}
	identifier, err := domain.NewClientIdentifier(identifierValue)
	if err != nil {
		return nil, "", err
	}

	var secret, secretHash string
	if !req.Public {
		secret, err = s.randomToken(clientSecretBytes)
		if err != nil {
			s.logger.Error("failed to generate client secret", zap.Error(err))
			return nil, "", domain.ErrInternal
		}
		secretHash, err = s.hasher.Hash(secret)
		if err != nil {
			s.logger.Error("failed to hash client secret", zap.Error(err))
			return nil, "", domain.ErrInternal
		}
	}

	client, err := domain.NewClient(domain.NewID(), identifier, secretHash, req.DisplayName, req.RedirectURIs, req.GrantTypes, req.Public, ownerUserID, s.clock.Now())
	if err != nil {
		return nil, "", err
	}

	if err := s.clients.Create(ctx, client); err != nil {
		if errors.Is(err, domain.ErrClientAlreadyExists) {
			return nil, "", domain.ErrClientAlreadyExists
		}
		s.logger.Error("failed to create client", zap.Error(err))
		return nil, "", domain.ErrInternal
	}

	s.logger.Info("client registered",
		zap.String("client_id", identifier.String()),
		zap.String("owner_user_id", ownerUserID),
		zap.Bool("public", req.Public))
	return client, secret, nil
}

// Rename updates a client's display name
func (s *ClientService) Rename(ctx context.Context, ownerUserID, clientIdentifier, displayName string) (*domain.Client, error) {
	client, err := s.ownedClient(ctx, ownerUserID, clientIdentifier)
	if err != nil {
		return nil, err
	}

	if err := client.Rename(displayName, s.clock.Now()); err != nil {
		return nil, err
	}
	return client, s.update(ctx, client)
}

// UpdateRedirectURIs replaces a client's registered redirect URIs
func (s *ClientService) UpdateRedirectURIs(ctx context.Context, ownerUserID, clientIdentifier string, uris []string) (*domain.Client, error) {
	client, err := s.ownedClient(ctx, ownerUserID, clientIdentifier)
	if err != nil {
		return nil, err
	}

	if err := client.SetRedirectURIs(uris, s.clock.Now()); err != nil {
		return nil, err
	}
	return client, s.update(ctx, client)
}

// UpdateGrantTypes replaces a client's permitted grant types
func (s *ClientService) UpdateGrantTypes(ctx context.Context, ownerUserID, clientIdentifier string, grantTypes []string) (*domain.Client, error) {
	client, err := s.ownedClient(ctx, ownerUserID, clientIdentifier)
	if err != nil {
		return nil, err
	}

	if err := client.SetGrantTypes(grantTypes, s.clock.Now()); err != nil {
		return nil, err
	}
	return client, s.update(ctx, client)
}

// RotateSecret generates a fresh secret for a confidential client and
// returns it once
func (s *ClientService) RotateSecret(ctx context.Context, ownerUserID, clientIdentifier string) (string, error) {
	client, err := s.ownedClient(ctx, ownerUserID, clientIdentifier)
	if err != nil {
		return "", err
	}

	secret, err := s.randomToken(clientSecretBytes)
	if err != nil {
		s.logger.Error("failed to generate client secret", zap.Error(err))
		return "", domain.ErrInternal
	}
	secretHash, err := s.hasher.Hash(secret)
	if err != nil {
		s.logger.Error("failed to hash client secret", zap.Error(err))
		return "", domain.ErrInternal
	}

	if err := client.RotateSecret(secretHash, s.clock.Now()); err != nil {
		return "", err
	}
	if err := s.update(ctx, client); err != nil {
		return "", err
	}

	s.logger.Info("client secret rotated", zap.String("client_id", clientIdentifier))
	return secret, nil
}

// Deactivate soft-deletes a client. Existing codes and consents stay on
// record; the client simply stops validating.
func (s *ClientService) Deactivate(ctx context.Context, ownerUserID, clientIdentifier string) error {
	client, err := s.ownedClient(ctx, ownerUserID, clientIdentifier)
	if err != nil {
		return err
	}

	if err := client.Deactivate(s.clock.Now()); err != nil {
		return err
	}
	if err := s.update(ctx, client); err != nil {
		return err
	}

	s.logger.Info("client deactivated", zap.String("client_id", clientIdentifier))
	return nil
}

// EnsureSystemClient finds the system client provisioned for a role,
// creating it on first run. The returned secret is empty when the client
// already existed.
func (s *ClientService) EnsureSystemClient(ctx context.Context, role, displayName string, redirectURIs, grantTypes []string) (*domain.Client, string, error) {
	client, err := s.clients.FindBySystemRole(ctx, role)
	if err == nil {
		return client, "", nil
	}
	if !errors.Is(err, domain.ErrClientNotFound) {
		s.logger.Error("failed to look up system client",
			zap.String("system_role", role),
			zap.Error(err))
		return nil, "", domain.ErrInternal
	}

	identifierValue, err := s.randomToken(clientIdentifierBytes)
	if err != nil {
		return nil, "", domain.ErrInternal
	}
	identifier, err := domain.NewClientIdentifier(identifierValue)
	if err != nil {
		return nil, "", err
	}
	secret, err := s.randomToken(clientSecretBytes)
	if err != nil {
		return nil, "", domain.ErrInternal
	}
	secretHash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, "", domain.ErrInternal
	}

	client, err = domain.NewSystemClient(domain.NewID(), identifier, secretHash, displayName, role, redirectURIs, grantTypes, s.clock.Now())
	if err != nil {
		return nil, "", err
	}
	if err := s.clients.Create(ctx, client); err != nil {
		s.logger.Error("failed to create system client",
			zap.String("system_role", role),
			zap.Error(err))
		return nil, "", domain.ErrInternal
	}

	s.logger.Info("system client provisioned",
		zap.String("system_role", role),
		zap.String("client_id", identifier.String()))
	return client, secret, nil
}

func (s *ClientService) ownedClient(ctx context.Context, ownerUserID, clientIdentifier string) (*domain.Client, error) {
	identifier, err := domain.NewClientIdentifier(clientIdentifier)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.ErrClientNotFound
		}
		s.logger.Error("failed to find client",
			zap.String("client_id", clientIdentifier),
			zap.Error(err))
		return nil, domain.ErrInternal
	}

	if client.SystemClient || !client.IsOwnedBy(ownerUserID) {
		return nil, domain.ErrForbidden
	}
	return client, nil
}

func (s *ClientService) update(ctx context.Context, client *domain.Client) error {
	if err := s.clients.Update(ctx, client); err != nil {
		s.logger.Error("failed to update client",
			zap.String("client_id", client.ClientIdentifier.String()),
			zap.Error(err))
		return domain.ErrInternal
	}
	return nil
}

func (s *ClientService) randomToken(n int) (string, error) {
	raw, err := s.random.GenerateBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
