package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/quirino/oauth-code-service/internal/domain"
)

type MockCodeIssuer struct {
	mock.Mock
}

func (m *MockCodeIssuer) Issue(ctx context.Context, userID string, req domain.AuthorizeRequest) (*domain.AuthorizationGrant, error) {
	args := m.Called(ctx, userID, req)
	if grant := args.Get(0); grant != nil {
		return grant.(*domain.AuthorizationGrant), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTokenExchanger struct {
	mock.Mock
}

func (m *MockTokenExchanger) Redeem(ctx context.Context, code, verifier, clientIdentifier, clientSecret, redirectURI string) (*domain.RedemptionResult, error) {
	args := m.Called(ctx, code, verifier, clientIdentifier, clientSecret, redirectURI)
	if result := args.Get(0); result != nil {
		return result.(*domain.RedemptionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAccessTokenIssuer struct {
	mock.Mock
}

func (m *MockAccessTokenIssuer) Issue(ctx context.Context, subject, clientID, scope string) (*domain.AccessToken, error) {
	args := m.Called(ctx, subject, clientID, scope)
	if token := args.Get(0); token != nil {
		return token.(*domain.AccessToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccessTokenIssuer) Validate(token string) (*domain.AccessTokenClaims, error) {
	args := m.Called(token)
	if claims := args.Get(0); claims != nil {
		return claims.(*domain.AccessTokenClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockConsentGate struct {
	mock.Mock
}

func (m *MockConsentGate) Check(ctx context.Context, userID, clientID string, scopes []string) (bool, error) {
	args := m.Called(ctx, userID, clientID, scopes)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsentGate) Record(ctx context.Context, userID, clientID string, scopes []string, approved bool) error {
	args := m.Called(ctx, userID, clientID, scopes, approved)
	return args.Error(0)
}
