package domain

import (
	"context"
	"time"
)

// AuthorizeRequest carries everything a client sends to request an
// authorization code.
type AuthorizeRequest struct {
	ClientID            string
	RedirectURI         string
	Scope               string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
}

// AuthorizationGrant is the successful outcome of code issuance. State is
// echoed back untouched for the caller to relay.
type AuthorizationGrant struct {
	Code      string
	State     string
	ExpiresAt time.Time
}

// RedemptionResult identifies who and what a redeemed code was issued for.
// The caller mints actual access credentials from it.
type RedemptionResult struct {
	UserID   string
	ClientID string
	Scope    string
}

// ClientValidator verifies a client is known, active and permitted the
// requested redirect URI and grant type
type ClientValidator interface {
	Validate(ctx context.Context, clientIdentifier, redirectURI, grantType string) (*Client, error)
}

// ConsentGate answers whether a user has sufficient active consent for a
// client and records consent decisions
type ConsentGate interface {
	// Check reports whether an active consent covers the requested scopes.
	// An empty scope set passes whenever any active consent exists.
	Check(ctx context.Context, userID, clientID string, scopes []string) (bool, error)

	// Record stores an approval (revoking any prior grant for the pair) or
	// surfaces ErrConsentDenied without writing anything
	Record(ctx context.Context, userID, clientID string, scopes []string, approved bool) error
}

// CodeIssuer mints bound, time-limited, single-use authorization codes
type CodeIssuer interface {
	Issue(ctx context.Context, userID string, req AuthorizeRequest) (*AuthorizationGrant, error)
}

// TokenExchanger redeems authorization codes. Confidential clients
// authenticate with their secret; public clients redeem PKCE-bound codes.
// Every failure surfaces as ErrInvalidGrant.
type TokenExchanger interface {
	Redeem(ctx context.Context, code, verifier, clientIdentifier, clientSecret, redirectURI string) (*RedemptionResult, error)
}
