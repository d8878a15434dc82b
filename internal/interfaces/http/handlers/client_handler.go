package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quirino/oauth-code-service/internal/application"
	"github.com/quirino/oauth-code-service/internal/domain"
	httperrors "github.com/quirino/oauth-code-service/internal/interfaces/http/errors"
)

// ClientHandler serves client registration and management endpoints
type ClientHandler struct {
	clients *application.ClientService
	logger  *zap.Logger
}

func NewClientHandler(clients *application.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clients: clients,
		logger:  logger,
	}
}

// RegisterHandler registers a client owned by the authenticated user. The
// response is the only place the plaintext secret ever appears.
func (h *ClientHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.GetSubject(r.Context())
	if !ok || userID == "" {
		httperrors.RespondWithError(w, domain.ErrInvalidToken)
		return
	}

	var req RegisterClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, domain.NewValidationError("invalid request body"))
		return
	}

	client, secret, err := h.clients.Register(r.Context(), userID, application.RegisterClientRequest{
		DisplayName:  req.DisplayName,
		RedirectURIs: req.RedirectURIs,
		GrantTypes:   req.GrantTypes,
		Public:       req.Public,
	})
	if err != nil {
		httperrors.RespondWithError(w, err)
		return
	}

	response := toClientResponse(client)
	response.ClientSecret = secret

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// UpdateHandler applies the non-nil settings from the request to a client
// owned by the authenticated user
func (h *ClientHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.GetSubject(r.Context())
	if !ok || userID == "" {
		httperrors.RespondWithError(w, domain.ErrInvalidToken)
		return
	}
	clientID := chi.URLParam(r, "clientID")

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, domain.NewValidationError("invalid request body"))
		return
	}

	var client *domain.Client
	var err error
	if req.DisplayName != nil {
		client, err = h.clients.Rename(r.Context(), userID, clientID, *req.DisplayName)
		if err != nil {
			httperrors.RespondWithError(w, err)
			return
		}
	}
	if req.RedirectURIs != nil {
		client, err = h.clients.UpdateRedirectURIs(r.Context(), userID, clientID, *req.RedirectURIs)
		if err != nil {
			httperrors.RespondWithError(w, err)
			return
		}
	}
	if req.GrantTypes != nil {
		client, err = h.clients.UpdateGrantTypes(r.Context(), userID, clientID, *req.GrantTypes)
		if err != nil {
			httperrors.RespondWithError(w, err)
			return
		}
	}
	if client == nil {
		httperrors.RespondWithError(w, domain.NewValidationError("no fields to update"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toClientResponse(client))
}

// RotateSecretHandler replaces a confidential client's secret and returns
// the new plaintext once
func (h *ClientHandler) RotateSecretHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.GetSubject(r.Context())
	if !ok || userID == "" {
		httperrors.RespondWithError(w, domain.ErrInvalidToken)
		return
	}
	clientID := chi.URLParam(r, "clientID")

	secret, err := h.clients.RotateSecret(r.Context(), userID, clientID)
	if err != nil {
		httperrors.RespondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"client_secret": secret})
}

// DeactivateHandler retires a client. Deactivated clients fail validation
// on every subsequent authorization request.
func (h *ClientHandler) DeactivateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.GetSubject(r.Context())
	if !ok || userID == "" {
		httperrors.RespondWithError(w, domain.ErrInvalidToken)
		return
	}
	clientID := chi.URLParam(r, "clientID")

	if err := h.clients.Deactivate(r.Context(), userID, clientID); err != nil {
		httperrors.RespondWithError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toClientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:     client.ClientIdentifier.String(),
		DisplayName:  client.DisplayName,
		RedirectURIs: client.RedirectURIs,
		GrantTypes:   client.GrantTypes,
		Public:       client.Public,
		Active:       client.Active,
	}
}
