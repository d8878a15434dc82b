package handlers

import "time"

// TokenResponse is the body returned by the token endpoint
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// ConsentDecisionRequest records a user's decision on a client's consent prompt
type ConsentDecisionRequest struct {
	ClientID string `json:"client_id"`
	Scope    string `json:"scope"`
	Approved bool   `json:"approved"`
}

// ConsentResponse describes one of a user's active consents
type ConsentResponse struct {
	ClientID  string     `json:"client_id"`
	Scopes    []string   `json:"scopes"`
	GrantedAt time.Time  `json:"granted_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RegisterClientRequest is the body accepted by client registration
type RegisterClientRequest struct {
	DisplayName  string   `json:"display_name"`
	RedirectURIs []string `json:"redirect_uris"`
	GrantTypes   []string `json:"grant_types"`
	Public       bool     `json:"public"`
}

// UpdateClientRequest carries client settings updates. Only non-nil fields
// are applied.
type UpdateClientRequest struct {
	DisplayName  *string   `json:"display_name,omitempty"`
	RedirectURIs *[]string `json:"redirect_uris,omitempty"`
	GrantTypes   *[]string `json:"grant_types,omitempty"`
}

// ClientResponse describes a registered client. ClientSecret is populated
// only on registration and rotation, the only times the plaintext exists.
type ClientResponse struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty"`
	DisplayName  string   `json:"display_name"`
	RedirectURIs []string `json:"redirect_uris"`
	GrantTypes   []string `json:"grant_types"`
	Public       bool     `json:"public"`
	Active       bool     `json:"active"`
}
