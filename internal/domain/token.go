package domain

import "context"

// AccessToken is a minted access credential. Wire format beyond the bearer
// token itself is not modeled here.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresIn int64
}

// AccessTokenClaims are the validated claims of an access token
type AccessTokenClaims struct {
	Subject  string
	ClientID string
	Scope    string
}

// AccessTokenIssuer mints and validates access tokens after a successful
// code redemption
type AccessTokenIssuer interface {
	Issue(ctx context.Context, subject, clientID, scope string) (*AccessToken, error)
	Validate(token string) (*AccessTokenClaims, error)
}
