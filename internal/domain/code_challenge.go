package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// CodeChallengeMethod is the PKCE transformation applied to the verifier
type CodeChallengeMethod string

const (
	// CodeChallengeMethodS256 compares base64url(sha256(verifier)) against the challenge
	CodeChallengeMethodS256 CodeChallengeMethod = "S256"
	// CodeChallengeMethodPlain compares the verifier directly against the challenge
	CodeChallengeMethodPlain CodeChallengeMethod = "plain"
)

// s256ChallengeLength is the length of a base64url-encoded SHA-256 digest
// without padding.
const s256ChallengeLength = 43

// CodeChallenge is the PKCE challenge a client sends at authorization time.
// The matching verifier is presented later, at redemption.
type CodeChallenge struct {
	challenge string
	method    CodeChallengeMethod
}

// NewCodeChallenge validates a challenge/method pair received from a client
func NewCodeChallenge(challenge, method string) (CodeChallenge, error) {
	m := CodeChallengeMethod(method)
	switch m {
	case CodeChallengeMethodS256:
		if len(challenge) != s256ChallengeLength || !isBase64URL(challenge) {
			return CodeChallenge{}, ErrInvalidCodeChallenge
		}
	case CodeChallengeMethodPlain:
		if challenge == "" {
			return CodeChallenge{}, ErrInvalidCodeChallenge
		}
	default:
		return CodeChallenge{}, ErrInvalidCodeChallengeMethod
	}
	return CodeChallenge{challenge: challenge, method: m}, nil
}

// IsZero reports whether no challenge was bound at issuance
func (c CodeChallenge) IsZero() bool {
	return c.method == ""
}

// Verify reports whether the presented verifier matches the stored challenge
func (c CodeChallenge) Verify(verifier string) bool {
	if verifier == "" {
		return false
	}

	var expected string
	if c.method == CodeChallengeMethodS256 {
		hash := sha256.Sum256([]byte(verifier))
		expected = base64.RawURLEncoding.EncodeToString(hash[:])
	} else {
		expected = verifier
	}

	return subtle.ConstantTimeCompare([]byte(expected), []byte(c.challenge)) == 1
}

// Challenge returns the raw challenge string
func (c CodeChallenge) Challenge() string {
	return c.challenge
}

// Method returns the challenge method
func (c CodeChallenge) Method() CodeChallengeMethod {
	return c.method
}

func isBase64URL(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
