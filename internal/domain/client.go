package domain

import "time"

// OAuth2 grant types a client can be registered for
const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
	GrantTypeClientCredentials = "client_credentials"
)

// Client is a registered OAuth2 client application
type Client struct {
	ID               string
	ClientIdentifier ClientIdentifier
	SecretHash       string
	DisplayName      string
	RedirectURIs     []string
	GrantTypes       []string
	Public           bool
	Active           bool
	OwnerUserID      string
	SystemClient     bool
	SystemRole       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewClient creates a user-owned client. Public clients carry no secret and
// must use PKCE; confidential clients carry a hashed secret.
func NewClient(id string, identifier ClientIdentifier, secretHash, displayName string, redirectURIs, grantTypes []string, public bool, ownerUserID string, now time.Time) (*Client, error) {
	if identifier.IsZero() {
		return nil, NewValidationError("client identifier cannot be empty")
	}
	if displayName == "" {
		return nil, NewValidationError("client display name cannot be empty")
	}
	if len(redirectURIs) == 0 {
		return nil, NewValidationError("client requires at least one redirect uri")
	}
	if len(grantTypes) == 0 {
		return nil, NewValidationError("client requires at least one grant type")
	}
	if !public && secretHash == "" {
		return nil, NewValidationError("confidential client requires a secret")
	}
	if public && secretHash != "" {
		return nil, NewValidationError("public client cannot hold a secret")
	}
	if ownerUserID == "" {
		return nil, NewValidationError("client requires an owner")
	}

	return &Client{
		ID:               id,
		ClientIdentifier: identifier,
		SecretHash:       secretHash,
		DisplayName:      displayName,
		RedirectURIs:     redirectURIs,
		GrantTypes:       grantTypes,
		Public:           public,
		Active:           true,
		OwnerUserID:      ownerUserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// NewSystemClient creates a privileged, consent-exempt client. System
// clients have no owner and are provisioned at startup, not by users.
func NewSystemClient(id string, identifier ClientIdentifier, secretHash, displayName, systemRole string, redirectURIs, grantTypes []string, now time.Time) (*Client, error) {
	if identifier.IsZero() {
		return nil, NewValidationError("client identifier cannot be empty")
	}
	if displayName == "" {
		return nil, NewValidationError("client display name cannot be empty")
	}
	if systemRole == "" {
		return nil, NewValidationError("system client requires a role")
	}
	if len(redirectURIs) == 0 {
		return nil, NewValidationError("client requires at least one redirect uri")
	}
	if len(grantTypes) == 0 {
		return nil, NewValidationError("client requires at least one grant type")
	}

	return &Client{
		ID:               id,
		ClientIdentifier: identifier,
		SecretHash:       secretHash,
		DisplayName:      displayName,
		RedirectURIs:     redirectURIs,
		GrantTypes:       grantTypes,
		Active:           true,
		SystemClient:     true,
		SystemRole:       systemRole,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsActive reports whether the client may participate in flows
func (c *Client) IsActive() bool {
	return c.Active
}

// AllowsRedirectURI reports whether the exact URI is registered
func (c *Client) AllowsRedirectURI(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}

// AllowsGrantType reports whether the client may use the grant type
func (c *Client) AllowsGrantType(grantType string) bool {
	for _, registered := range c.GrantTypes {
		if registered == grantType {
			return true
		}
	}
	return false
}

// RequiresPKCE reports whether the client must bind codes to a PKCE
// challenge. Public non-system clients cannot keep a secret, so the
// challenge is their only proof of possession.
func (c *Client) RequiresPKCE() bool {
	return c.Public && !c.SystemClient
}

// RequiresConsent reports whether user consent gates code issuance.
// System clients act as the product's own front end and are exempt.
func (c *Client) RequiresConsent() bool {
	return !c.SystemClient
}

// IsOwnedBy reports whether the user owns this client
func (c *Client) IsOwnedBy(userID string) bool {
	return c.OwnerUserID != "" && c.OwnerUserID == userID
}

// Rename updates the display name
func (c *Client) Rename(displayName string, now time.Time) error {
	if displayName == "" {
		return NewValidationError("client display name cannot be empty")
	}
	c.DisplayName = displayName
	c.UpdatedAt = now
	return nil
}

// SetRedirectURIs replaces the registered redirect URIs
func (c *Client) SetRedirectURIs(uris []string, now time.Time) error {
	if len(uris) == 0 {
		return NewValidationError("client requires at least one redirect uri")
	}
	c.RedirectURIs = uris
	c.UpdatedAt = now
	return nil
}

// SetGrantTypes replaces the permitted grant types
func (c *Client) SetGrantTypes(grantTypes []string, now time.Time) error {
	if len(grantTypes) == 0 {
		return NewValidationError("client requires at least one grant type")
	}
	c.GrantTypes = grantTypes
	c.UpdatedAt = now
	return nil
}

// RotateSecret replaces the stored secret hash
func (c *Client) RotateSecret(secretHash string, now time.Time) error {
	if c.Public {
		return NewValidationError("public client cannot hold a secret")
	}
	if secretHash == "" {
		return NewValidationError("secret hash cannot be empty")
	}
	c.SecretHash = secretHash
	c.UpdatedAt = now
	return nil
}

// Deactivate soft-deletes the client. Codes and consents referencing it
// stay on record; issuance and redemption simply stop matching it.
func (c *Client) Deactivate(now time.Time) error {
	if !c.Active {
		return NewValidationError("client is already inactive")
	}
	c.Active = false
	c.UpdatedAt = now
	return nil
}
