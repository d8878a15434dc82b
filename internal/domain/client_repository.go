package domain

import "context"

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	// Create persists a new client
	Create(ctx context.Context, client *Client) error

	// FindByIdentifier finds a client by its public identifier.
	// Returns ErrClientNotFound if no client matches.
	FindByIdentifier(ctx context.Context, identifier ClientIdentifier) (*Client, error)

	// FindBySystemRole finds the system client provisioned for a role.
	// Returns ErrClientNotFound if none exists.
	FindBySystemRole(ctx context.Context, role string) (*Client, error)

	// Update persists changes to an existing client
	Update(ctx context.Context, client *Client) error
}
