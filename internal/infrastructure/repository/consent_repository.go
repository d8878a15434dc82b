package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quirino/oauth-code-service/internal/domain"
	"github.com/quirino/oauth-code-service/internal/infrastructure/database"
	"go.uber.org/zap"
)

// PostgresConsentRepository implements ConsentRepository using PostgreSQL
type PostgresConsentRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewConsentRepository creates a new PostgresConsentRepository
func NewConsentRepository(db *database.Postgres, logger *zap.Logger) domain.ConsentRepository {
	return &PostgresConsentRepository{
		db:     db,
		logger: logger,
	}
}

const activeConsentCondition = `revoked_at IS NULL AND (expires_at IS NULL OR expires_at >= now())`

func (r *PostgresConsentRepository) FindActiveByUserAndClient(ctx context.Context, userID, clientID string) (*domain.Consent, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, client_id, scopes, granted_at, expires_at, revoked_at
		FROM consents
		WHERE user_id = $1 AND client_id = $2 AND `+activeConsentCondition,
		userID, clientID)

	consent, err := scanConsent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConsentNotFound
		}
		return nil, err
	}
	return consent, nil
}

func (r *PostgresConsentRepository) Save(ctx context.Context, consent *domain.Consent) error {
	scopes, err := json.Marshal(consent.Scopes)
	if err != nil {
		return err
	}

	return r.db.Exec(ctx, `
		INSERT INTO consents (id, user_id, client_id, scopes, granted_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, consent.ID, consent.UserID, consent.ClientID, scopes,
		consent.GrantedAt, consent.ExpiresAt, consent.RevokedAt)
}

func (r *PostgresConsentRepository) Revoke(ctx context.Context, consentID string, revokedAt time.Time) error {
	return r.db.Exec(ctx, `
		UPDATE consents SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL
	`, consentID, revokedAt)
}

func (r *PostgresConsentRepository) FindAllActiveByUser(ctx context.Context, userID string) ([]*domain.Consent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, client_id, scopes, granted_at, expires_at, revoked_at
		FROM consents
		WHERE user_id = $1 AND `+activeConsentCondition+`
		ORDER BY granted_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var consents []*domain.Consent
	for rows.Next() {
		consent, err := scanConsent(rows)
		if err != nil {
			return nil, err
		}
		consents = append(consents, consent)
	}
	return consents, rows.Err()
}

// ReplaceActive revokes any active consent for the pair and inserts the new
// record in one transaction, so the at-most-one-active invariant holds for
// concurrent readers.
func (r *PostgresConsentRepository) ReplaceActive(ctx context.Context, consent *domain.Consent) error {
	scopes, err := json.Marshal(consent.Scopes)
	if err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE consents SET revoked_at = $3
			WHERE user_id = $1 AND client_id = $2 AND revoked_at IS NULL
		`, consent.UserID, consent.ClientID, consent.GrantedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO consents (id, user_id, client_id, scopes, granted_at, expires_at, revoked_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, consent.ID, consent.UserID, consent.ClientID, scopes,
			consent.GrantedAt, consent.ExpiresAt, consent.RevokedAt)
		return err
	})
}

func scanConsent(row pgx.Row) (*domain.Consent, error) {
	consent := &domain.Consent{}
	var scopes []byte

	err := row.Scan(&consent.ID, &consent.UserID, &consent.ClientID, &scopes,
		&consent.GrantedAt, &consent.ExpiresAt, &consent.RevokedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(scopes, &consent.Scopes); err != nil {
		return nil, err
	}
	return consent, nil
}
