package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/quirino/oauth-code-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// RFC 7636 appendix B pair
const (
	testVerifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
)

func storedCode(t *testing.T, now time.Time) *domain.AuthorizationCode {
	t.Helper()
	identifier, err := domain.NewClientIdentifier("acme")
	require.NoError(t, err)
	challenge, err := domain.NewCodeChallenge(testChallengeS256, "S256")
	require.NoError(t, err)
	code, err := domain.NewAuthorizationCode("code-token", "u1", identifier, "https://acme.example/cb", challenge, "profile", "xyz", now, time.Minute)
	require.NoError(t, err)
	return code
}

func publicTestClient(t *testing.T, identifier string) *domain.Client {
	t.Helper()
	id, err := domain.NewClientIdentifier(identifier)
	require.NoError(t, err)
	client, err := domain.NewClient(domain.NewID(), id, "", "Test SPA",
		[]string{"https://acme.example/cb"},
		[]string{domain.GrantTypeAuthorizationCode}, true, "user-1", time.Now())
	require.NoError(t, err)
	return client
}

func TestTokenExchanger_Redeem(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		code        string
		verifier    string
		clientID    string
		redirectURI string
		at          time.Time
		setupMock   func(*MockCodeRepository)
		wantErr     error
	}{
		{
			name:        "success",
			code:        "code-token",
			verifier:    testVerifier,
			clientID:    "acme",
			redirectURI: "https://acme.example/cb",
			at:          now,
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "code-token").Return(storedCode(t, now), nil)
				m.On("MarkUsedIfUnused", mock.Anything, "code-token", mock.Anything).Return(true, nil)
			},
		},
		{
			name:        "unknown code",
			code:        "missing",
			verifier:    testVerifier,
			clientID:    "acme",
			redirectURI: "https://acme.example/cb",
			at:          now,
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "missing").Return(nil, domain.ErrCodeNotFound)
			},
			wantErr: domain.ErrInvalidGrant,
		},
		{
			name:        "already used code",
			code:        "code-token",
			verifier:    testVerifier,
			clientID:    "acme",
			redirectURI: "https://acme.example/cb",
			at:          now,
			setupMock: func(m *MockCodeRepository) {
				code := storedCode(t, now)
				code.Used = true
				m.On("FindByToken", mock.Anything, "code-token").Return(code, nil)
			},
			wantErr: domain.ErrInvalidGrant,
		},
		{
			name:        "expired just past the boundary",
			code:        "code-token",
			verifier:    testVerifier,
			clientID:    "acme",
			redirectURI: "https://acme.example/cb",
			at:          now.Add(time.Minute + time.Millisecond),
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "code-token").Return(storedCode(t, now), nil)
			},
			wantErr: domain.ErrInvalidGrant,
		},
		{
			name:        "valid just before the boundary",
			code:        "code-token",
			verifier:    testVerifier,
			clientID:    "acme",
			redirectURI: "https://acme.example/cb",
			at:          now.Add(time.Minute - time.Millisecond),
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "code-token").Return(storedCode(t, now), nil)
				m.On("MarkUsedIfUnused", mock.Anything, "code-token", mock.Anything).Return(true, nil)
			},
		},
		{
			name:        "client mismatch",
			code:        "code-token",
			verifier:    testVerifier,
			clientID:    "other",
			redirectURI: "https://acme.example/cb",
			at:          now,
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "code-token").Return(storedCode(t, now), nil)
			},
			wantErr: domain.ErrInvalidGrant,
		},
		{
			name:        "redirect uri mismatch",
			code:        "code-token",
			verifier:    testVerifier,
			clientID:    "acme",
			redirectURI: "https://evil.example/cb",
			at:          now,
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "code-token").Return(storedCode(t, now), nil)
			},
			wantErr: domain.ErrInvalidGrant,
		},
		{
			name:        "wrong verifier",
			code:        "code-token",
			verifier:    "not-the-verifier",
			clientID:    "acme",
			redirectURI: "https://acme.example/cb",
			at:          now,
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "code-token").Return(storedCode(t, now), nil)
			},
			wantErr: domain.ErrInvalidGrant,
		},
		{
			name:        "race loss on conditional update",
			code:        "code-token",
			verifier:    testVerifier,
			clientID:    "acme",
			redirectURI: "https://acme.example/cb",
			at:          now,
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "code-token").Return(storedCode(t, now), nil)
				m.On("MarkUsedIfUnused", mock.Anything, "code-token", mock.Anything).Return(false, nil)
			},
			wantErr: domain.ErrInvalidGrant,
		},
		{
			name:        "store failure surfaces as internal",
			code:        "code-token",
			verifier:    testVerifier,
			clientID:    "acme",
			redirectURI: "https://acme.example/cb",
			at:          now,
			setupMock: func(m *MockCodeRepository) {
				m.On("FindByToken", mock.Anything, "code-token").Return(nil, assert.AnError)
			},
			wantErr: domain.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := new(MockCodeRepository)
			tt.setupMock(codes)
			clients := new(MockClientRepository)
			clients.On("FindByIdentifier", mock.Anything, mock.Anything).
				Return(publicTestClient(t, tt.clientID), nil)

			exchanger := NewTokenExchanger(codes, clients, new(MockSecretHasher), fixedClock{now: tt.at}, zap.NewNop())
			result, err := exchanger.Redeem(context.Background(), tt.code, tt.verifier, tt.clientID, "", tt.redirectURI)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "u1", result.UserID)
				assert.Equal(t, "acme", result.ClientID)
				assert.Equal(t, "profile", result.Scope)
			}

			codes.AssertExpectations(t)
		})
	}
}

func TestTokenExchanger_ClientAuthentication(t *testing.T) {
	now := time.Now()

	noChallengeCode := func() *domain.AuthorizationCode {
		identifier, err := domain.NewClientIdentifier("acme")
		require.NoError(t, err)
		code, err := domain.NewAuthorizationCode("code-token", "u1", identifier,
			"https://acme.example/cb", domain.CodeChallenge{}, "profile", "xyz", now, time.Minute)
		require.NoError(t, err)
		return code
	}

	t.Run("confidential client without its secret is rejected", func(t *testing.T) {
		clients := new(MockClientRepository)
		clients.On("FindByIdentifier", mock.Anything, mock.Anything).
			Return(registeredClient(t, "acme", true), nil)
		hasher := new(MockSecretHasher)
		hasher.On("Verify", "$2a$10$hash", "").Return(false)
		codes := new(MockCodeRepository)

		exchanger := NewTokenExchanger(codes, clients, hasher, fixedClock{now: now}, zap.NewNop())
		_, err := exchanger.Redeem(context.Background(), "code-token", "", "acme", "", "https://acme.example/cb")

		assert.ErrorIs(t, err, domain.ErrInvalidGrant)
		codes.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	})

	t.Run("confidential client with a wrong secret is rejected", func(t *testing.T) {
		clients := new(MockClientRepository)
		clients.On("FindByIdentifier", mock.Anything, mock.Anything).
			Return(registeredClient(t, "acme", true), nil)
		hasher := new(MockSecretHasher)
		hasher.On("Verify", "$2a$10$hash", "guessed").Return(false)
		codes := new(MockCodeRepository)

		exchanger := NewTokenExchanger(codes, clients, hasher, fixedClock{now: now}, zap.NewNop())
		_, err := exchanger.Redeem(context.Background(), "code-token", "", "acme", "guessed", "https://acme.example/cb")

		assert.ErrorIs(t, err, domain.ErrInvalidGrant)
		codes.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	})

	t.Run("confidential client with its secret redeems a no-challenge code", func(t *testing.T) {
		clients := new(MockClientRepository)
		clients.On("FindByIdentifier", mock.Anything, mock.Anything).
			Return(registeredClient(t, "acme", true), nil)
		hasher := new(MockSecretHasher)
		hasher.On("Verify", "$2a$10$hash", "the-secret").Return(true)
		codes := new(MockCodeRepository)
		codes.On("FindByToken", mock.Anything, "code-token").Return(noChallengeCode(), nil)
		codes.On("MarkUsedIfUnused", mock.Anything, "code-token", now).Return(true, nil)

		exchanger := NewTokenExchanger(codes, clients, hasher, fixedClock{now: now}, zap.NewNop())
		result, err := exchanger.Redeem(context.Background(), "code-token", "", "acme", "the-secret", "https://acme.example/cb")

		require.NoError(t, err)
		assert.Equal(t, "u1", result.UserID)
		hasher.AssertExpectations(t)
	})

	t.Run("unknown client is rejected", func(t *testing.T) {
		clients := new(MockClientRepository)
		clients.On("FindByIdentifier", mock.Anything, mock.Anything).
			Return(nil, domain.ErrClientNotFound)
		codes := new(MockCodeRepository)

		exchanger := NewTokenExchanger(codes, clients, new(MockSecretHasher), fixedClock{now: now}, zap.NewNop())
		_, err := exchanger.Redeem(context.Background(), "code-token", testVerifier, "ghost", "", "https://acme.example/cb")

		assert.ErrorIs(t, err, domain.ErrInvalidGrant)
	})

	t.Run("inactive client is rejected", func(t *testing.T) {
		clients := new(MockClientRepository)
		clients.On("FindByIdentifier", mock.Anything, mock.Anything).
			Return(registeredClient(t, "acme", false), nil)
		codes := new(MockCodeRepository)

		exchanger := NewTokenExchanger(codes, clients, new(MockSecretHasher), fixedClock{now: now}, zap.NewNop())
		_, err := exchanger.Redeem(context.Background(), "code-token", testVerifier, "acme", "", "https://acme.example/cb")

		assert.ErrorIs(t, err, domain.ErrInvalidGrant)
		codes.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	})
}

// Exactly one of N concurrent redemptions of the same code may succeed,
// whatever the interleaving.
func TestTokenExchanger_SingleUseUnderConcurrency(t *testing.T) {
	now := time.Now()
	repo := newMemCodeRepository()
	require.NoError(t, repo.Save(context.Background(), storedCode(t, now)))

	clients := newMemClientRepository()
	require.NoError(t, clients.Create(context.Background(), publicTestClient(t, "acme")))

	exchanger := NewTokenExchanger(repo, clients, new(MockSecretHasher), fixedClock{now: now}, zap.NewNop())

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := exchanger.Redeem(context.Background(), "code-token", testVerifier, "acme", "", "https://acme.example/cb")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidGrant)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
}
