package storage

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// DefaultProfileImage derives the identicon avatar URL every account starts
// with. The hash input is the trimmed, lowercased email so the same address
// always maps to the same picture.
func DefaultProfileImage(email string, size int) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=identicon", hash, size)
}
