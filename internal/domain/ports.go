package domain

import "time"

// Clock abstracts time so expiry logic is testable
type Clock interface {
	Now() time.Time
}

// RandomSource supplies cryptographically secure random bytes
type RandomSource interface {
	GenerateBytes(n int) ([]byte, error)
}

// SecretHasher hashes and verifies client secrets
type SecretHasher interface {
	Hash(secret string) (string, error)
	Verify(hash, secret string) bool
}
