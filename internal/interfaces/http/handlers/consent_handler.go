package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quirino/oauth-code-service/internal/application"
	"github.com/quirino/oauth-code-service/internal/domain"
	httperrors "github.com/quirino/oauth-code-service/internal/interfaces/http/errors"
)

// ConsentHandler serves the consent decision and management endpoints
type ConsentHandler struct {
	gate     domain.ConsentGate
	consents *application.ConsentService
	logger   *zap.Logger
}

func NewConsentHandler(gate domain.ConsentGate, consents *application.ConsentService, logger *zap.Logger) *ConsentHandler {
	return &ConsentHandler{
		gate:     gate,
		consents: consents,
		logger:   logger,
	}
}

// DecideHandler records the authenticated user's approval or denial of a
// client's consent prompt
func (h *ConsentHandler) DecideHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.GetSubject(r.Context())
	if !ok || userID == "" {
		httperrors.RespondWithError(w, domain.ErrInvalidToken)
		return
	}

	var req ConsentDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondWithError(w, domain.NewValidationError("invalid request body"))
		return
	}
	if req.ClientID == "" {
		httperrors.RespondWithError(w, domain.NewValidationError("client_id is required"))
		return
	}

	scopes := strings.Fields(req.Scope)
	if err := h.gate.Record(r.Context(), userID, req.ClientID, scopes, req.Approved); err != nil {
		httperrors.RespondWithError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListHandler returns the authenticated user's active consents
func (h *ConsentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.GetSubject(r.Context())
	if !ok || userID == "" {
		httperrors.RespondWithError(w, domain.ErrInvalidToken)
		return
	}

	consents, err := h.consents.List(r.Context(), userID)
	if err != nil {
		httperrors.RespondWithError(w, err)
		return
	}

	response := make([]ConsentResponse, 0, len(consents))
	for _, consent := range consents {
		response = append(response, ConsentResponse{
			ClientID:  consent.ClientID,
			Scopes:    consent.Scopes,
			GrantedAt: consent.GrantedAt,
			ExpiresAt: consent.ExpiresAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RevokeHandler withdraws the authenticated user's consent for a client.
// Revoking a consent that does not exist is a no-op.
func (h *ConsentHandler) RevokeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.GetSubject(r.Context())
	if !ok || userID == "" {
		httperrors.RespondWithError(w, domain.ErrInvalidToken)
		return
	}

	clientID := chi.URLParam(r, "clientID")
	if clientID == "" {
		httperrors.RespondWithError(w, domain.NewValidationError("client id is required"))
		return
	}

	if err := h.consents.Revoke(r.Context(), userID, clientID); err != nil {
		httperrors.RespondWithError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
