package service

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt digest. Two calls on the same input
// yield different digests; both verify.
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// VerifyPassword reports whether plaintext matches the digest. A malformed
// digest verifies as false rather than failing.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
