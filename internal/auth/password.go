package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for password hashing. Raising it slows both
// legitimate logins and offline brute-force equally.
const bcryptCost = 10

// HashPassword creates a salted bcrypt digest of the password. bcrypt embeds
// the salt and cost in the digest, so no extra state needs to be stored.
// Fails only for inputs beyond bcrypt's 72-byte limit.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the digest.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
