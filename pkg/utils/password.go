package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives an irreversible bcrypt hash from a plain password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash verifies a plain password against a stored hash.
// bcrypt's comparison is constant-time with respect to the hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
