// Package password hashes and verifies per-post passwords with bcrypt.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

// Hash returns a salted bcrypt hash of plaintext. Costs outside bcrypt's
// accepted range fall back to DefaultCost.
func Hash(plaintext string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a mismatch.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
