package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeEmail lowercases and trims an address. Every comparison
// against a stored email must go through this, or lookups and the derived
// ID disagree on which account an address belongs to.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveUserID produces a stable user ID from an email address. The same
// email (after normalization) always maps to the same ID, so
// re-registering an address can never create a second identity.
func DeriveUserID(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])[:16]
}
