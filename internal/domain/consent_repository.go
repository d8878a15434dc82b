package domain

import (
	"context"
	"time"
)

// ConsentRepository defines the interface for consent data access
type ConsentRepository interface {
	// FindActiveByUserAndClient returns the active consent for the pair.
	// Returns ErrConsentNotFound when none exists.
	FindActiveByUserAndClient(ctx context.Context, userID, clientID string) (*Consent, error)

	// Save persists a new consent record
	Save(ctx context.Context, consent *Consent) error

	// Revoke marks a consent revoked at the given time
	Revoke(ctx context.Context, consentID string, revokedAt time.Time) error

	// FindAllActiveByUser lists a user's active consents
	FindAllActiveByUser(ctx context.Context, userID string) ([]*Consent, error)

	// ReplaceActive revokes any active consent for the new record's
	// (user, client) pair and inserts the new record as one transactional
	// unit. A concurrent reader must never observe two active consents for
	// the same pair.
	ReplaceActive(ctx context.Context, consent *Consent) error
}
