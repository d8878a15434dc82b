package application

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/quirino/oauth-code-service/internal/domain"
)

// In-memory repositories backing the end-to-end and race tests. They mirror
// the store's contract: per-row atomic conditional update on codes,
// revoke-and-insert as one critical section on consents.

type memClientRepository struct {
	mu      sync.Mutex
	clients map[string]*domain.Client
}

func newMemClientRepository() *memClientRepository {
	return &memClientRepository{clients: make(map[string]*domain.Client)}
}

func (r *memClientRepository) Create(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ClientIdentifier.String()]; ok {
		return domain.ErrClientAlreadyExists
	}
	r.clients[client.ClientIdentifier.String()] = client
	return nil
}

func (r *memClientRepository) FindByIdentifier(_ context.Context, identifier domain.ClientIdentifier) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[identifier.String()]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

func (r *memClientRepository) FindBySystemRole(_ context.Context, role string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, client := range r.clients {
		if client.SystemClient && client.SystemRole == role {
			copied := *client
			return &copied, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *memClientRepository) Update(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *client
	r.clients[client.ClientIdentifier.String()] = &copied
	return nil
}

type memConsentRepository struct {
	mu       sync.Mutex
	consents map[string]*domain.Consent
	now      func() time.Time
}

func newMemConsentRepository(now func() time.Time) *memConsentRepository {
	return &memConsentRepository{consents: make(map[string]*domain.Consent), now: now}
}

func (r *memConsentRepository) FindActiveByUserAndClient(_ context.Context, userID, clientID string) (*domain.Consent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, consent := range r.consents {
		if consent.UserID == userID && consent.ClientID == clientID && consent.IsActive(r.now()) {
			copied := *consent
			return &copied, nil
		}
	}
	return nil, domain.ErrConsentNotFound
}

func (r *memConsentRepository) Save(_ context.Context, consent *domain.Consent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *consent
	r.consents[consent.ID] = &copied
	return nil
}

func (r *memConsentRepository) Revoke(_ context.Context, consentID string, revokedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if consent, ok := r.consents[consentID]; ok {
		consent.Revoke(revokedAt)
	}
	return nil
}

func (r *memConsentRepository) FindAllActiveByUser(_ context.Context, userID string) ([]*domain.Consent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []*domain.Consent
	for _, consent := range r.consents {
		if consent.UserID == userID && consent.IsActive(r.now()) {
			copied := *consent
			active = append(active, &copied)
		}
	}
	return active, nil
}

func (r *memConsentRepository) ReplaceActive(_ context.Context, consent *domain.Consent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.consents {
		if existing.UserID == consent.UserID && existing.ClientID == consent.ClientID {
			existing.Revoke(consent.GrantedAt)
		}
	}
	copied := *consent
	r.consents[consent.ID] = &copied
	return nil
}

func (r *memConsentRepository) all() []*domain.Consent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Consent, 0, len(r.consents))
	for _, consent := range r.consents {
		copied := *consent
		out = append(out, &copied)
	}
	return out
}

type memCodeRepository struct {
	mu    sync.Mutex
	codes map[string]*domain.AuthorizationCode
}

func newMemCodeRepository() *memCodeRepository {
	return &memCodeRepository{codes: make(map[string]*domain.AuthorizationCode)}
}

func (r *memCodeRepository) Save(_ context.Context, code *domain.AuthorizationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *code
	r.codes[code.Code] = &copied
	return nil
}

func (r *memCodeRepository) FindByToken(_ context.Context, token string) (*domain.AuthorizationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[token]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	copied := *code
	return &copied, nil
}

// MarkUsedIfUnused is the atomic conditional update: check and set happen
// under one lock, exactly like "UPDATE ... WHERE used = false".
func (r *memCodeRepository) MarkUsedIfUnused(_ context.Context, token string, usedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[token]
	if !ok || code.Used {
		return false, nil
	}
	code.Used = true
	code.UsedAt = &usedAt
	return true, nil
}

// cryptoRandom backs end-to-end tests with real entropy
type cryptoRandom struct{}

func (cryptoRandom) GenerateBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
