package domain

import (
	"context"
	"time"
)

// CodeRepository defines the interface for authorization code data access
type CodeRepository interface {
	// Save persists a new authorization code
	Save(ctx context.Context, code *AuthorizationCode) error

	// FindByToken looks a code up by its token.
	// Returns ErrCodeNotFound if no code matches.
	FindByToken(ctx context.Context, token string) (*AuthorizationCode, error)

	// MarkUsedIfUnused marks the code used as a single conditional update
	// guarded by used = false. It returns false when the guard did not
	// match, i.e. a concurrent redemption won the race. This is the only
	// mutation a code ever receives.
	MarkUsedIfUnused(ctx context.Context, token string, usedAt time.Time) (bool, error)
}
