package random

import (
	"crypto/rand"

	"github.com/quirino/oauth-code-service/internal/domain"
)

// CryptoSource draws random bytes from crypto/rand
type CryptoSource struct{}

// New creates a CryptoSource
func New() domain.RandomSource {
	return CryptoSource{}
}

func (CryptoSource) GenerateBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
