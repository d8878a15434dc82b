package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quirino/oauth-code-service/internal/domain"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents a validation error detail
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func getStatus(err domain.Error) int {
	switch err.GetCode() {
	case domain.ErrClientNotFound.GetCode():
		return http.StatusNotFound
	case domain.ErrConsentNotFound.GetCode():
		return http.StatusNotFound
	case domain.ErrConsentRequired.GetCode():
		return http.StatusForbidden
	case domain.ErrForbidden.GetCode():
		return http.StatusForbidden
	case domain.ErrInvalidToken.GetCode():
		return http.StatusUnauthorized
	case domain.ErrClientAlreadyExists.GetCode():
		return http.StatusConflict
	case domain.ErrInternal.GetCode():
		return http.StatusInternalServerError
	}

	return http.StatusBadRequest
}

// RespondWithError sends a standardized error response. Errors that do not
// carry a domain code are reported as internal.
func RespondWithError(w http.ResponseWriter, err error) {
	var domainErr domain.Error
	if !errors.As(err, &domainErr) {
		domainErr = domain.ErrInternal
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(getStatus(domainErr))
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    domainErr.GetCode(),
		Message: domainErr.GetMessage(),
	})
}

// RespondErrorWithDetails sends a standardized error response with details
func RespondErrorWithDetails(w http.ResponseWriter, err domain.Error, details []ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(getStatus(err))
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    err.GetCode(),
		Message: err.GetMessage(),
		Details: details,
	})
}
