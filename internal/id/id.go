// Package id generates identifiers for records and requests.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewBook returns a UUID v4 for a new book record. The id is minted before
// the write is attempted, so a client retrying the same logical creation
// carries the same id and duplicates are detectable.
func NewBook() string {
	return uuid.NewString()
}

// NewRequest creates a short NanoID used to correlate log lines for one
// HTTP request. Returns an error if the system lacks entropy.
func NewRequest() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return "req-" + id, nil
}

// MustRequest is like NewRequest but panics on failure. Entropy exhaustion
// is not something a request path can recover from anyway.
func MustRequest() string {
	id, err := NewRequest()
	if err != nil {
		panic(fmt.Sprintf("failed to generate request ID: %v", err))
	}
	return id
}
