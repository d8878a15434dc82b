package domain

// Error is the contract every typed domain failure satisfies. Callers
// branch on the code, HTTP adapters map it to a status.
type Error interface {
	error
	GetCode() string
	GetMessage() string
}

// DomainError is a coded domain failure. Two errors compare equal under
// errors.Is when their codes match.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetCode returns the error code
func (e *DomainError) GetCode() string {
	return e.Code
}

// GetMessage returns the error message
func (e *DomainError) GetMessage() string {
	return e.Message
}

// Is matches errors by code so re-created instances compare equal
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewError creates a domain error with the given code and message
func NewError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewValidationError creates a request validation failure
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: "VALIDATION_ERROR", Message: message}
}

var (
	// ErrValidation is the generic request validation failure. Specific
	// messages are created with NewValidationError; they all compare equal
	// to this sentinel under errors.Is.
	ErrValidation = NewError("VALIDATION_ERROR", "validation failed")

	// ErrClientNotFound is returned when no active client matches an identifier
	ErrClientNotFound = NewError("CLIENT_NOT_FOUND", "client not found")

	// ErrRedirectURIMismatch is returned when a redirect URI is not registered for the client
	ErrRedirectURIMismatch = NewError("REDIRECT_URI_MISMATCH", "redirect uri not registered for client")

	// ErrUnsupportedGrantType is returned when the client is not allowed the requested grant type
	ErrUnsupportedGrantType = NewError("UNSUPPORTED_GRANT_TYPE", "grant type not allowed for client")

	// ErrConsentRequired signals that the user has not granted sufficient
	// consent. It is an expected condition, routed to a consent flow rather
	// than treated as a failure.
	ErrConsentRequired = NewError("CONSENT_REQUIRED", "user consent required")

	// ErrConsentDenied is returned when the user declines the consent screen
	ErrConsentDenied = NewError("CONSENT_DENIED", "user denied consent")

	// ErrConsentNotFound is returned when no active consent exists for a user/client pair
	ErrConsentNotFound = NewError("CONSENT_NOT_FOUND", "consent not found")

	// ErrCodeNotFound is returned by repositories when no authorization code
	// matches a token. Exchange flows translate it to ErrInvalidGrant before
	// it reaches a caller.
	ErrCodeNotFound = NewError("CODE_NOT_FOUND", "authorization code not found")

	// ErrInvalidGrant is the single failure returned for every redemption
	// problem: unknown, expired, already used, mismatched client or redirect
	// URI, failed PKCE verification. Causes are deliberately not
	// distinguishable from the outside.
	ErrInvalidGrant = NewError("INVALID_GRANT", "invalid grant")

	// ErrInvalidCodeChallenge is returned when a PKCE challenge is malformed
	ErrInvalidCodeChallenge = NewError("INVALID_CODE_CHALLENGE", "invalid code challenge")

	// ErrInvalidCodeChallengeMethod is returned for challenge methods other than S256 and plain
	ErrInvalidCodeChallengeMethod = NewError("INVALID_CODE_CHALLENGE_METHOD", "invalid code challenge method")

	// ErrClientAlreadyExists is returned when registering a client with a taken identifier
	ErrClientAlreadyExists = NewError("CLIENT_ALREADY_EXISTS", "client already exists")

	// ErrForbidden is returned when a caller acts on a resource it does not own
	ErrForbidden = NewError("FORBIDDEN", "forbidden")

	// ErrInvalidToken is returned for unparseable or expired access tokens
	ErrInvalidToken = NewError("INVALID_TOKEN", "invalid token")

	// ErrInternal is returned for unexpected failures (store unavailable etc.)
	ErrInternal = NewError("INTERNAL_ERROR", "internal server error")
)
