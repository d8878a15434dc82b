package domain

import "strings"

// ClientIdentifier is the public identifier a client presents on the wire.
// It is distinct from the internal record ID.
type ClientIdentifier struct {
	value string
}

// NewClientIdentifier validates and wraps a public client identifier
func NewClientIdentifier(value string) (ClientIdentifier, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ClientIdentifier{}, NewValidationError("client identifier cannot be empty")
	}
	return ClientIdentifier{value: trimmed}, nil
}

func (c ClientIdentifier) String() string {
	return c.value
}

// Equal compares two identifiers by value
func (c ClientIdentifier) Equal(other ClientIdentifier) bool {
	return c.value == other.value
}

// IsZero reports whether the identifier is the empty value
func (c ClientIdentifier) IsZero() bool {
	return c.value == ""
}
