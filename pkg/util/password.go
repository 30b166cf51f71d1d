package util

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

// HashPassword turns a plaintext password into a bcrypt hash.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// IsHash reports whether stored looks like a bcrypt hash rather than a legacy plaintext value.
func IsHash(stored string) bool {
	if len(stored) != 60 {
		return false
	}
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// CheckPassword verifies password against a stored value. Legacy plaintext
// values are compared in constant time; needsRehash is true for them.
func CheckPassword(password, stored string) (ok bool, needsRehash bool) {
	if stored == "" {
		return false, false
	}
	if IsHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	ok = subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
	return ok, ok
}
