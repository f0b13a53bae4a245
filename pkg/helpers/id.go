package helpers

import "github.com/google/uuid"

// NewID returns prefix-<uuid>, e.g. US-1f0c...
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
