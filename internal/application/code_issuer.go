package application

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/quirino/oauth-code-service/internal/domain"
	"go.uber.org/zap"
)

// codeTokenBytes is the entropy of a code token before encoding
const codeTokenBytes = 32

// CodeIssuer orchestrates client validation and the consent gate to mint a
// bound, time-limited, single-use authorization code.
type CodeIssuer struct {
	validator domain.ClientValidator
	gate      domain.ConsentGate
	codes     domain.CodeRepository
	clock     domain.Clock
	random    domain.RandomSource
	codeTTL   time.Duration
	logger    *zap.Logger
}

// NewCodeIssuer creates a new CodeIssuer. A zero codeTTL falls back to the
// one-minute default at construction of each code.
func NewCodeIssuer(validator domain.ClientValidator, gate domain.ConsentGate, codes domain.CodeRepository, clock domain.Clock, random domain.RandomSource, codeTTL time.Duration, logger *zap.Logger) *CodeIssuer {
	return &CodeIssuer{
		validator: validator,
		gate:      gate,
		codes:     codes,
		clock:     clock,
		random:    random,
		codeTTL:   codeTTL,
		logger:    logger,
	}
}

// Issue validates the request and persists a new authorization code bound
// to the client, redirect URI and PKCE challenge. Failures of the client
// validator propagate unchanged; an uncovered scope set surfaces as
// ErrConsentRequired for the caller to route to a consent flow.
func (i *CodeIssuer) Issue(ctx context.Context, userID string, req domain.AuthorizeRequest) (*domain.AuthorizationGrant, error) {
	i.logger.Debug("issuing authorization code",
		zap.String("user_id", userID),
		zap.String("client_id", req.ClientID),
		zap.String("scope", req.Scope))

	client, err := i.validator.Validate(ctx, req.ClientID, req.RedirectURI, domain.GrantTypeAuthorizationCode)
	if err != nil {
		return nil, err
	}

	scopes := strings.Fields(req.Scope)

	if client.RequiresConsent() {
		granted, err := i.gate.Check(ctx, userID, client.ClientIdentifier.String(), scopes)
		if err != nil {
			return nil, err
		}
		if !granted {
			return nil, domain.ErrConsentRequired
		}
	}

	// Public clients must bind the code to a PKCE challenge; confidential
	// and system clients may omit it.
	var challenge domain.CodeChallenge
	if req.CodeChallenge == "" && req.CodeChallengeMethod == "" {
		if client.RequiresPKCE() {
			return nil, domain.ErrInvalidCodeChallenge
		}
	} else {
		challenge, err = domain.NewCodeChallenge(req.CodeChallenge, req.CodeChallengeMethod)
		if err != nil {
			return nil, err
		}
	}

	token, err := i.generateToken()
	if err != nil {
		i.logger.Error("failed to generate code token", zap.Error(err))
		return nil, domain.ErrInternal
	}

	code, err := domain.NewAuthorizationCode(token, userID, client.ClientIdentifier, req.RedirectURI, challenge, req.Scope, req.State, i.clock.Now(), i.codeTTL)
	if err != nil {
		return nil, err
	}

	if err := i.codes.Save(ctx, code); err != nil {
		i.logger.Error("failed to store authorization code",
			zap.String("client_id", req.ClientID),
			zap.Error(err))
		return nil, domain.ErrInternal
	}

	return &domain.AuthorizationGrant{
		Code:      code.Code,
		State:     req.State,
		ExpiresAt: code.ExpiresAt,
	}, nil
}

func (i *CodeIssuer) generateToken() (string, error) {
	raw, err := i.random.GenerateBytes(codeTokenBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
