package auth

import (
	"amc-backend/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 8

// decoyHash is compared against when the account is unknown, so a login for a missing
// e-mail costs the same as a wrong password.
var decoyHash, _ = bcrypt.GenerateFromPassword([]byte("amc-decoy-password"), bcryptCost)

// HashPassword hashes an admin or customer confirmation password. bcrypt ignores
// everything past 72 bytes, so longer passwords are refused.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperr.Validation("password", "Password is required")
	}
	if len(password) > 72 {
		return "", apperr.Validation("password", "Password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hashedPassword. An empty hash never
// matches.
func VerifyPassword(hashedPassword, password string) bool {
	if hashedPassword == "" {
		_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
