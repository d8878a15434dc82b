package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/quirino/oauth-code-service/internal/domain"
	httperrors "github.com/quirino/oauth-code-service/internal/interfaces/http/errors"
)

// OAuthHandler serves the authorization and token endpoints
type OAuthHandler struct {
	issuer    domain.CodeIssuer
	exchanger domain.TokenExchanger
	tokens    domain.AccessTokenIssuer
	logger    *zap.Logger
}

func NewOAuthHandler(issuer domain.CodeIssuer, exchanger domain.TokenExchanger, tokens domain.AccessTokenIssuer, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		issuer:    issuer,
		exchanger: exchanger,
		tokens:    tokens,
		logger:    logger,
	}
}

// requestIDField pulls the request ID out of the context for log
// correlation; absent IDs are skipped rather than logged empty.
func requestIDField(ctx context.Context) zap.Field {
	if id, ok := domain.GetRequestID(ctx); ok {
		return zap.String("request_id", id)
	}
	return zap.Skip()
}

// AuthorizeHandler issues an authorization code for the authenticated user
// and redirects back to the client. Validation failures are answered
// directly because the redirect URI is not trusted until validated.
func (h *OAuthHandler) AuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := domain.GetSubject(r.Context())
	if !ok || userID == "" {
		httperrors.RespondWithError(w, domain.ErrInvalidToken)
		return
	}

	query := r.URL.Query()
	req := domain.AuthorizeRequest{
		ClientID:            query.Get("client_id"),
		RedirectURI:         query.Get("redirect_uri"),
		Scope:               query.Get("scope"),
		State:               query.Get("state"),
		CodeChallenge:       query.Get("code_challenge"),
		CodeChallengeMethod: query.Get("code_challenge_method"),
	}

	grant, err := h.issuer.Issue(r.Context(), userID, req)
	if err != nil {
		h.logger.Debug("authorization request rejected",
			zap.String("client_id", req.ClientID),
			requestIDField(r.Context()),
			zap.Error(err))
		httperrors.RespondWithError(w, err)
		return
	}

	location, err := url.Parse(req.RedirectURI)
	if err != nil {
		httperrors.RespondWithError(w, domain.ErrRedirectURIMismatch)
		return
	}
	params := location.Query()
	params.Set("code", grant.Code)
	if grant.State != "" {
		params.Set("state", grant.State)
	}
	location.RawQuery = params.Encode()

	http.Redirect(w, r, location.String(), http.StatusFound)
}

// TokenHandler redeems an authorization code for an access token. The
// request is form encoded as OAuth clients send it.
func (h *OAuthHandler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httperrors.RespondWithError(w, domain.NewValidationError("malformed form body"))
		return
	}

	grantType := r.PostForm.Get("grant_type")
	if grantType != domain.GrantTypeAuthorizationCode {
		httperrors.RespondWithError(w, domain.ErrUnsupportedGrantType)
		return
	}

	code := r.PostForm.Get("code")
	verifier := r.PostForm.Get("code_verifier")
	clientID := r.PostForm.Get("client_id")
	clientSecret := r.PostForm.Get("client_secret")
	redirectURI := r.PostForm.Get("redirect_uri")
	if code == "" || clientID == "" || redirectURI == "" {
		httperrors.RespondWithError(w, domain.NewValidationError("code, client_id and redirect_uri are required"))
		return
	}

	result, err := h.exchanger.Redeem(r.Context(), code, verifier, clientID, clientSecret, redirectURI)
	if err != nil {
		httperrors.RespondWithError(w, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), result.UserID, result.ClientID, result.Scope)
	if err != nil {
		h.logger.Error("failed to mint access token",
			requestIDField(r.Context()),
			zap.Error(err))
		httperrors.RespondWithError(w, domain.ErrInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
		Scope:       result.Scope,
	})
}
