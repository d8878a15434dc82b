package domain

import "time"

// Consent is a user's recorded approval of a client's access to a set of
// scopes. Consents are never edited; re-approval revokes the old record and
// creates a new one, so at most one consent per (user, client) pair is
// active at any time.
type Consent struct {
	ID        string
	UserID    string
	ClientID  string
	Scopes    []string
	GrantedAt time.Time
	ExpiresAt *time.Time
	RevokedAt *time.Time
}

// NewConsent creates an approved consent record. A zero ttl means the
// consent does not expire.
func NewConsent(id, userID, clientID string, scopes []string, grantedAt time.Time, ttl time.Duration) (*Consent, error) {
	if userID == "" {
		return nil, NewValidationError("consent requires a user")
	}
	if clientID == "" {
		return nil, NewValidationError("consent requires a client")
	}

	consent := &Consent{
		ID:        id,
		UserID:    userID,
		ClientID:  clientID,
		Scopes:    scopes,
		GrantedAt: grantedAt,
	}
	if ttl > 0 {
		expires := grantedAt.Add(ttl)
		consent.ExpiresAt = &expires
	}
	return consent, nil
}

// IsActive reports whether the consent is neither revoked nor expired
func (c *Consent) IsActive(now time.Time) bool {
	if c.RevokedAt != nil {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}

// Covers reports whether every requested scope is included in the grant.
// An empty request carries no specific scope requirement and is covered.
func (c *Consent) Covers(scopes []string) bool {
	for _, requested := range scopes {
		found := false
		for _, granted := range c.Scopes {
			if granted == requested {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Revoke marks the consent revoked. Revoking twice keeps the original
// timestamp.
func (c *Consent) Revoke(now time.Time) {
	if c.RevokedAt != nil {
		return
	}
	c.RevokedAt = &now
}

// IsRevoked reports whether the consent has been revoked
func (c *Consent) IsRevoked() bool {
	return c.RevokedAt != nil
}
