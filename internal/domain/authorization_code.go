package domain

import "time"

// DefaultCodeTTL bounds a code's validity when no TTL is configured
const DefaultCodeTTL = time.Minute

// AuthorizationCode is a short-lived, single-use code bound to the client,
// redirect URI and PKCE challenge that requested it. Once used it is
// terminal; expired and used rows are left for an external retention
// process to collect.
type AuthorizationCode struct {
	Code          string
	UserID        string
	ClientID      ClientIdentifier
	RedirectURI   string
	CodeChallenge CodeChallenge
	Scope         string
	State         string
	ExpiresAt     time.Time
	Used          bool
	UsedAt        *time.Time
	CreatedAt     time.Time
}

// NewAuthorizationCode creates a code expiring ttl after createdAt. A zero
// ttl falls back to DefaultCodeTTL.
func NewAuthorizationCode(code, userID string, clientID ClientIdentifier, redirectURI string, challenge CodeChallenge, scope, state string, createdAt time.Time, ttl time.Duration) (*AuthorizationCode, error) {
	if code == "" {
		return nil, NewValidationError("authorization code token cannot be empty")
	}
	if userID == "" {
		return nil, NewValidationError("authorization code requires a user")
	}
	if clientID.IsZero() {
		return nil, NewValidationError("authorization code requires a client")
	}
	if redirectURI == "" {
		return nil, NewValidationError("authorization code requires a redirect uri")
	}
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}

	return &AuthorizationCode{
		Code:          code,
		UserID:        userID,
		ClientID:      clientID,
		RedirectURI:   redirectURI,
		CodeChallenge: challenge,
		Scope:         scope,
		State:         state,
		ExpiresAt:     createdAt.Add(ttl),
		CreatedAt:     createdAt,
	}, nil
}

// IsExpired reports whether the code's validity window has passed
func (a *AuthorizationCode) IsExpired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// Matches reports whether the presented client and redirect URI are the
// ones the code was issued to
func (a *AuthorizationCode) Matches(clientID ClientIdentifier, redirectURI string) bool {
	return a.ClientID.Equal(clientID) && a.RedirectURI == redirectURI
}
