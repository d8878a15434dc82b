package application

import (
	"context"
	"time"

	"github.com/quirino/oauth-code-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockClientRepository is a mock implementation of domain.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) FindByIdentifier(ctx context.Context, identifier domain.ClientIdentifier) (*domain.Client, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) FindBySystemRole(ctx context.Context, role string) (*domain.Client, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

// MockConsentRepository is a mock implementation of domain.ConsentRepository
type MockConsentRepository struct {
	mock.Mock
}

func (m *MockConsentRepository) FindActiveByUserAndClient(ctx context.Context, userID, clientID string) (*domain.Consent, error) {
	args := m.Called(ctx, userID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Consent), args.Error(1)
}

func (m *MockConsentRepository) Save(ctx context.Context, consent *domain.Consent) error {
	args := m.Called(ctx, consent)
	return args.Error(0)
}

func (m *MockConsentRepository) Revoke(ctx context.Context, consentID string, revokedAt time.Time) error {
	args := m.Called(ctx, consentID, revokedAt)
	return args.Error(0)
}

func (m *MockConsentRepository) FindAllActiveByUser(ctx context.Context, userID string) ([]*domain.Consent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Consent), args.Error(1)
}

func (m *MockConsentRepository) ReplaceActive(ctx context.Context, consent *domain.Consent) error {
	args := m.Called(ctx, consent)
	return args.Error(0)
}

// MockCodeRepository is a mock implementation of domain.CodeRepository
type MockCodeRepository struct {
	mock.Mock
}

func (m *MockCodeRepository) Save(ctx context.Context, code *domain.AuthorizationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCodeRepository) FindByToken(ctx context.Context, token string) (*domain.AuthorizationCode, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationCode), args.Error(1)
}

func (m *MockCodeRepository) MarkUsedIfUnused(ctx context.Context, token string, usedAt time.Time) (bool, error) {
	args := m.Called(ctx, token, usedAt)
	return args.Bool(0), args.Error(1)
}

// MockSecretHasher is a mock implementation of domain.SecretHasher
type MockSecretHasher struct {
	mock.Mock
}

func (m *MockSecretHasher) Hash(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

func (m *MockSecretHasher) Verify(hash, secret string) bool {
	args := m.Called(hash, secret)
	return args.Bool(0)
}

// fixedClock returns a constant instant
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// staticRandom fills buffers deterministically
type staticRandom struct{}

func (staticRandom) GenerateBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b, nil
}
