package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/quirino/oauth-code-service/internal/domain"
	httperrors "github.com/quirino/oauth-code-service/internal/interfaces/http/errors"
)

// AuthMiddleware authenticates requests with a bearer access token and
// places the subject on the request context
type AuthMiddleware struct {
	tokens domain.AccessTokenIssuer
	logger *zap.Logger
}

func NewAuthMiddleware(tokens domain.AccessTokenIssuer, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

func (m *AuthMiddleware) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			httperrors.RespondWithError(w, domain.ErrInvalidToken)
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			m.logger.Debug("rejected bearer token", zap.Error(err))
			httperrors.RespondWithError(w, domain.ErrInvalidToken)
			return
		}

		ctx := domain.WithSubject(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
