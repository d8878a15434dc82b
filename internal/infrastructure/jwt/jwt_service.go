package jwt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/quirino/oauth-code-service/internal/domain"
)

const rsaKeySize = 2048

// Service mints RS256 access tokens from a local RSA key pair. The key is
// loaded from the configured path and generated there on first run.
type Service struct {
	privateKey     *rsa.PrivateKey
	publicKey      *rsa.PublicKey
	accessDuration time.Duration
	logger         *zap.Logger
}

// NewService creates a Service, loading or generating the RSA key pair at keyPath
func NewService(keyPath string, accessDuration time.Duration, logger *zap.Logger) (*Service, error) {
	s := &Service{
		accessDuration: accessDuration,
		logger:         logger,
	}
	if err := s.loadOrGenerateKeyPair(keyPath); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) loadOrGenerateKeyPair(keyPath string) error {
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return err
	}

	if err := s.loadKeyPair(keyPath); err == nil {
		return nil
	}
	return s.generateKeyPair(keyPath)
}

func (s *Service) loadKeyPair(keyPath string) error {
	privateKeyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return err
	}

	block, _ := pem.Decode(privateKeyPEM)
	if block == nil {
		return domain.ErrInternal
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return err
	}

	s.privateKey = privateKey
	s.publicKey = &privateKey.PublicKey
	return nil
}

func (s *Service) generateKeyPair(keyPath string) error {
	privateKey, err := rsa.GenerateKey(rand.Reader, rsaKeySize)
	if err != nil {
		return err
	}

	privateKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	if err := os.WriteFile(keyPath, privateKeyPEM, 0600); err != nil {
		return err
	}

	s.privateKey = privateKey
	s.publicKey = &privateKey.PublicKey
	return nil
}

// Issue mints an RS256 access token for the redeemed grant
func (s *Service) Issue(ctx context.Context, subject, clientID, scope string) (*domain.AccessToken, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       subject,
		"client_id": clientID,
		"scope":     scope,
		"iat":       now.Unix(),
		"exp":       now.Add(s.accessDuration).Unix(),
		"jti":       domain.NewID(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return &domain.AccessToken{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(s.accessDuration.Seconds()),
	}, nil
}

// Validate parses and verifies an access token's signature and expiry
func (s *Service) Validate(tokenString string) (*domain.AccessTokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.publicKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, domain.ErrInvalidToken
	}
	clientID, _ := claims["client_id"].(string)
	scope, _ := claims["scope"].(string)

	return &domain.AccessTokenClaims{
		Subject:  subject,
		ClientID: clientID,
		Scope:    scope,
	}, nil
}
