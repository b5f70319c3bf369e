package util

import "github.com/google/uuid"

// NewID returns a URL-safe random identifier.
func NewID() string {
	return uuid.NewString()
}
