package task

import "github.com/google/uuid"

// NewID returns a random task identifier.
func NewID() string {
	return uuid.NewString()
}
