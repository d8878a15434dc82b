package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quirino/oauth-code-service/internal/domain"
	"github.com/quirino/oauth-code-service/internal/infrastructure/database"
	"go.uber.org/zap"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations
const pgUniqueViolation = "23505"

// PostgresClientRepository implements ClientRepository using PostgreSQL
type PostgresClientRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewClientRepository creates a new PostgresClientRepository
func NewClientRepository(db *database.Postgres, logger *zap.Logger) domain.ClientRepository {
	return &PostgresClientRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresClientRepository) Create(ctx context.Context, client *domain.Client) error {
	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return err
	}

	grantTypes, err := json.Marshal(client.GrantTypes)
	if err != nil {
		return err
	}

	err = r.db.Exec(ctx, `
		INSERT INTO oauth_clients (id, client_identifier, secret_hash, display_name, redirect_uris, grant_types, is_public, is_active, owner_user_id, is_system, system_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, NULLIF($11, ''), $12, $13)
	`, client.ID, client.ClientIdentifier.String(), client.SecretHash, client.DisplayName,
		redirectURIs, grantTypes, client.Public, client.Active, client.OwnerUserID,
		client.SystemClient, client.SystemRole, client.CreatedAt, client.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrClientAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresClientRepository) FindByIdentifier(ctx context.Context, identifier domain.ClientIdentifier) (*domain.Client, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, client_identifier, secret_hash, display_name, redirect_uris, grant_types, is_public, is_active, COALESCE(owner_user_id, ''), is_system, COALESCE(system_role, ''), created_at, updated_at
		FROM oauth_clients WHERE client_identifier = $1
	`, identifier.String())

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (r *PostgresClientRepository) FindBySystemRole(ctx context.Context, role string) (*domain.Client, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, client_identifier, secret_hash, display_name, redirect_uris, grant_types, is_public, is_active, COALESCE(owner_user_id, ''), is_system, COALESCE(system_role, ''), created_at, updated_at
		FROM oauth_clients WHERE is_system = true AND system_role = $1
	`, role)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (r *PostgresClientRepository) Update(ctx context.Context, client *domain.Client) error {
	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return err
	}

	grantTypes, err := json.Marshal(client.GrantTypes)
	if err != nil {
		return err
	}

	return r.db.Exec(ctx, `
		UPDATE oauth_clients
		SET secret_hash = $1, display_name = $2, redirect_uris = $3, grant_types = $4, is_active = $5, updated_at = $6
		WHERE id = $7
	`, client.SecretHash, client.DisplayName, redirectURIs, grantTypes, client.Active, client.UpdatedAt, client.ID)
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	client := &domain.Client{}
	var identifier string
	var redirectURIs, grantTypes []byte

	err := row.Scan(&client.ID, &identifier, &client.SecretHash, &client.DisplayName,
		&redirectURIs, &grantTypes, &client.Public, &client.Active, &client.OwnerUserID,
		&client.SystemClient, &client.SystemRole, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}

	client.ClientIdentifier, err = domain.NewClientIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(redirectURIs, &client.RedirectURIs); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(grantTypes, &client.GrantTypes); err != nil {
		return nil, err
	}

	return client, nil
}
