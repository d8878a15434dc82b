package domain

import "github.com/oklog/ulid/v2"

// NewID generates a new ULID string for entity primary keys
func NewID() string {
	return ulid.Make().String()
}
