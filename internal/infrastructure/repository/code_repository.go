package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quirino/oauth-code-service/internal/domain"
	"github.com/quirino/oauth-code-service/internal/infrastructure/database"
	"go.uber.org/zap"
)

// PostgresCodeRepository implements CodeRepository using PostgreSQL
type PostgresCodeRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewCodeRepository creates a new PostgresCodeRepository
func NewCodeRepository(db *database.Postgres, logger *zap.Logger) domain.CodeRepository {
	return &PostgresCodeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresCodeRepository) Save(ctx context.Context, code *domain.AuthorizationCode) error {
	return r.db.Exec(ctx, `
		INSERT INTO authorization_codes (code, user_id, client_id, redirect_uri, code_challenge, code_challenge_method, scope, state, expires_at, used, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, code.Code, code.UserID, code.ClientID.String(), code.RedirectURI,
		code.CodeChallenge.Challenge(), string(code.CodeChallenge.Method()),
		code.Scope, code.State, code.ExpiresAt, code.Used, code.UsedAt, code.CreatedAt)
}

func (r *PostgresCodeRepository) FindByToken(ctx context.Context, token string) (*domain.AuthorizationCode, error) {
	row := r.db.QueryRow(ctx, `
		SELECT code, user_id, client_id, redirect_uri, code_challenge, code_challenge_method, scope, state, expires_at, used, used_at, created_at
		FROM authorization_codes WHERE code = $1
	`, token)

	code := &domain.AuthorizationCode{}
	var clientID, challenge, method string
	err := row.Scan(&code.Code, &code.UserID, &clientID, &code.RedirectURI,
		&challenge, &method, &code.Scope, &code.State,
		&code.ExpiresAt, &code.Used, &code.UsedAt, &code.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}

	code.ClientID, err = domain.NewClientIdentifier(clientID)
	if err != nil {
		return nil, err
	}

	// Codes issued without PKCE store an empty method
	if method != "" {
		code.CodeChallenge, err = domain.NewCodeChallenge(challenge, method)
		if err != nil {
			return nil, err
		}
	}
	return code, nil
}

// MarkUsedIfUnused flips the used flag with a conditional update so that
// concurrent redemptions of the same code resolve to exactly one winner.
func (r *PostgresCodeRepository) MarkUsedIfUnused(ctx context.Context, token string, usedAt time.Time) (bool, error) {
	affected, err := r.db.ExecAffected(ctx, `
		UPDATE authorization_codes SET used = true, used_at = $2
		WHERE code = $1 AND used = false
	`, token, usedAt)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
